package collector

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"MarketCorrelator/internal/model"

	"go.uber.org/zap"
)

// Collector turns per-ticker bars into a single price table.
type Collector struct {
	Fetcher Fetcher
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Log: log}
}

// Collect fetches every ticker and assembles a date-indexed table of adjusted (or plain) closes.
// A ticker that fails to fetch yields an all-missing column. Rows missing for every ticker are
// dropped; ErrNoDataReturned is returned when none remain.
func (c *Collector) Collect(ctx context.Context, tickers []string, start, end time.Time) (*model.PriceTable, error) {
	var names []string
	series := make(map[string]map[time.Time]float64)

	for _, raw := range tickers {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if _, seen := series[name]; seen || name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		names = append(names, name)
		series[name] = map[time.Time]float64{}

		bars, err := c.Fetcher.FetchDailyBars(ctx, name, start, end)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.Log.Warn("fetch failed", zap.String("ticker", name), zap.String("provider", c.Fetcher.Name()), zap.Error(err))
			continue
		}
		prices := closes(bars)
		for i, b := range bars {
			series[name][model.Day(b.Time)] = prices[i]
		}
		c.Log.Debug("fetched", zap.String("ticker", name), zap.Int("bars", len(bars)))
	}

	table := model.NewPriceTable(unionDates(series), names)
	for j, name := range names {
		for i, d := range table.Dates {
			if v, ok := series[name][d]; ok {
				table.Columns[j][i] = v
			}
		}
	}
	table = table.DropEmptyRows()
	if table.Len() == 0 {
		return nil, ErrNoDataReturned
	}
	return table, nil
}

// closes prefers the adjusted close when the series carries one, else the plain close.
func closes(bars []model.OHLCV) []float64 {
	useAdj := false
	for _, b := range bars {
		if !math.IsNaN(b.AdjClose) {
			useAdj = true
			break
		}
	}
	out := make([]float64, len(bars))
	for i, b := range bars {
		if useAdj {
			out[i] = b.AdjClose
		} else {
			out[i] = b.Close
		}
	}
	return out
}

func unionDates(series map[string]map[time.Time]float64) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, s := range series {
		for d := range s {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
