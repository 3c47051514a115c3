package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketCorrelator/internal/config"
	"MarketCorrelator/internal/model"
)

var (
	// ErrProviderUnavailable is returned when no fetcher can be built for the configured provider.
	ErrProviderUnavailable = errors.New("price provider unavailable")
	// ErrNoDataReturned is returned when the provider has nothing for the requested window.
	ErrNoDataReturned = errors.New("no data returned for the requested tickers/date range")
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyBars returns the bars of symbol in [start, end), oldest first.
	// A zero end means up to today.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// NewFetcher builds the fetcher named by cfg.Provider.
func NewFetcher(cfg config.DataSourceConfig, proxyURL string) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "yahoo":
		return NewYahooFetcher(proxyURL), nil
	case "rest":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%w: rest provider requires data_source.base_url", ErrProviderUnavailable)
		}
		return NewRESTFetcher(cfg.BaseURL, cfg.APIKey, proxyURL), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrProviderUnavailable, cfg.Provider)
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// windowEnd resolves a zero end to the current time.
func windowEnd(end time.Time) time.Time {
	if end.IsZero() {
		return time.Now()
	}
	return end
}
