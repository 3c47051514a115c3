package pipeline

import (
	"errors"

	"MarketCorrelator/internal/collector"
)

// Benign stop conditions: the run ends early with a message and a successful exit.
var (
	ErrNoTickers        = errors.New("no tickers specified")
	ErrEmptyAfterClean  = errors.New("no price data available after dropping empty columns")
	ErrEmptyCorrelation = errors.New("correlation matrix is empty")
)

// IsBenign reports whether err is an expected "nothing to do" outcome rather than a failure.
func IsBenign(err error) bool {
	return errors.Is(err, ErrNoTickers) ||
		errors.Is(err, collector.ErrNoDataReturned) ||
		errors.Is(err, ErrEmptyAfterClean) ||
		errors.Is(err, ErrEmptyCorrelation)
}
