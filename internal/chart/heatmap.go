package chart

import (
	"fmt"
	"image/color"
	"math"

	"MarketCorrelator/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
)

const (
	CorrelationHeatmapName  = "correlation_heatmap"
	CorrelationHeatmapTitle = "Daily Returns Correlation Heatmap"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
// Column c is ticker c; row r is ticker n-1-r so the first ticker sits on top.
type corrGrid struct{ m *model.CorrelationMatrix }

func (g corrGrid) Dims() (c, r int)   { return g.m.Len(), g.m.Len() }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Min() float64       { return -1 }
func (g corrGrid) Max() float64       { return 1 }
func (g corrGrid) Z(c, r int) float64 { return clamp(g.m.At(g.m.Len()-1-r, c)) }

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(-1, math.Min(1, v))
}

// CorrelationHeatmap draws m as an annotated heatmap on a blue-white-red scale from -1 to 1.
func CorrelationHeatmap(m *model.CorrelationMatrix) (*Figure, error) {
	if m.Empty() {
		return nil, fmt.Errorf("chart: empty correlation matrix")
	}
	grid := corrGrid{m}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(grid, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 220}

	p := plot.New()
	p.Title.Text = CorrelationHeatmapTitle
	p.Add(hm)

	n := m.Len()
	var xys plotter.XYs
	var labels []string
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			v := grid.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			labels = append(labels, fmt.Sprintf("%.2f", v))
		}
	}
	if len(xys) > 0 {
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("heatmap labels: %w", err)
		}
		for i := range annotations.TextStyle {
			annotations.TextStyle[i].XAlign = text.XCenter
			annotations.TextStyle[i].YAlign = text.YCenter
		}
		p.Add(annotations)
	}

	reversed := make([]string, n)
	for i, name := range m.Tickers {
		reversed[n-1-i] = name
	}
	p.NominalX(m.Tickers...)
	p.NominalY(reversed...)

	return newFigure(CorrelationHeatmapName, p), nil
}
