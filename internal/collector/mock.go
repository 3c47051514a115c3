package collector

import (
	"context"
	"math"
	"time"

	"MarketCorrelator/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars   map[string][]model.OHLCV
	Errors map[string]error
	Calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls = append(m.Calls, symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	var out []model.OHLCV
	for _, b := range m.Bars[symbol] {
		if b.Time.Before(start) || (!end.IsZero() && !b.Time.Before(end)) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// CloseBars builds consecutive daily bars starting at from, one per close.
// NaN closes are kept as missing observations.
func CloseBars(from time.Time, closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:     model.Day(from).AddDate(0, 0, i),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			AdjClose: math.NaN(),
			Volume:   1000000,
		}
	}
	return bars
}
