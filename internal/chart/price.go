package chart

import (
	"fmt"
	"math"

	"MarketCorrelator/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

const (
	NormalizedPriceName  = "normalized_price_chart"
	NormalizedPriceTitle = "Normalized Price Chart (Start = 1.0)"
)

// NormalizedPriceChart draws one line per ticker of t against time.
// Missing values split a ticker's line into separate segments.
func NormalizedPriceChart(t *model.PriceTable) (*Figure, error) {
	p := plot.New()
	p.Title.Text = NormalizedPriceTitle
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Normalized Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for j, name := range t.Tickers {
		var first *plotter.Line
		for _, seg := range segments(t, j) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("line for %s: %w", name, err)
			}
			line.Color = plotutil.Color(j)
			line.Width = vg.Points(1.2)
			p.Add(line)
			if first == nil {
				first = line
			}
		}
		if first != nil {
			p.Legend.Add(name, first)
		}
	}
	return newFigure(NormalizedPriceName, p), nil
}

// segments splits column j into runs of finite values, x being unix seconds.
func segments(t *model.PriceTable, j int) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, v := range t.Columns[j] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(t.Dates[i].Unix()), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
