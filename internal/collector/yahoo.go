package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"MarketCorrelator/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher reads daily bars from the Yahoo Finance v8 chart endpoint.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	// Aliases maps index nicknames to Yahoo symbols.
	Aliases map[string]string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		Aliases: map[string]string{"SPX": "^GSPC", "SP500": "^GSPC", "NDX": "^NDX", "VIX": "^VIX"},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// Null cells decode to nil pointers.
type series []*float64

func (s series) at(i int) float64 {
	if i >= len(s) || s[i] == nil {
		return math.NaN()
	}
	return *s[i]
}

type chartResult struct {
	Meta struct {
		GMTOffset int64 `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   series `json:"open"`
			High   series `json:"high"`
			Low    series `json:"low"`
			Close  series `json:"close"`
			Volume series `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose series `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// bars converts the columnar response into one bar per exchange-local day.
// Rows without any close are skipped, and a later bar for the same day
// (the live bar Yahoo appends during trading) replaces the earlier one.
func (r *chartResult) bars() ([]model.OHLCV, error) {
	if len(r.Timestamp) == 0 {
		return nil, nil
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote indicator")
	}
	q := r.Indicators.Quote[0]
	var adj series
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	days := make(map[time.Time]model.OHLCV, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		b := model.OHLCV{
			Time:     model.Day(time.Unix(ts+r.Meta.GMTOffset, 0).UTC()),
			Open:     q.Open.at(i),
			High:     q.High.at(i),
			Low:      q.Low.at(i),
			Close:    q.Close.at(i),
			AdjClose: adj.at(i),
			Volume:   q.Volume.at(i),
		}
		if math.IsNaN(b.Close) && math.IsNaN(b.AdjClose) {
			continue
		}
		days[b.Time] = b
	}

	out := make([]model.OHLCV, 0, len(days))
	for _, b := range days {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if alias, ok := f.Aliases[symbol]; ok {
		symbol = alias
	}
	// Bars are labelled by exchange-local day, which can sit up to a day off UTC,
	// so the request is padded and trimmed to [start, end) after decoding.
	q := url.Values{
		"period1":              {strconv.FormatInt(start.AddDate(0, 0, -1).Unix(), 10)},
		"period2":              {strconv.FormatInt(windowEnd(end).AddDate(0, 0, 1).Unix(), 10)},
		"interval":             {"1d"},
		"events":               {"div,split"},
		"includeAdjustedClose": {"true"},
	}
	endpoint := f.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// the endpoint rejects Go's default agent
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: read body: %w", symbol, err)
	}
	var env chartEnvelope
	decodeErr := json.Unmarshal(raw, &env)
	switch {
	case decodeErr == nil && env.Chart.Error != nil:
		return nil, fmt.Errorf("yahoo %s: %s: %s", symbol, env.Chart.Error.Code, env.Chart.Error.Description)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("yahoo %s: status %d: %.200s", symbol, resp.StatusCode, raw)
	case decodeErr != nil:
		return nil, fmt.Errorf("yahoo %s: decode: %w", symbol, decodeErr)
	case len(env.Chart.Result) == 0:
		return nil, nil
	}

	bars, err := env.Chart.Result[0].bars()
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	return inWindow(bars, start, end), nil
}

// inWindow keeps the bars whose day falls in [start, end). A zero end is open.
func inWindow(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	from := model.Day(start)
	out := bars[:0]
	for _, b := range bars {
		if b.Time.Before(from) || (!end.IsZero() && !b.Time.Before(end)) {
			continue
		}
		out = append(out, b)
	}
	return out
}
