// Package chart renders the analysis charts with gonum/plot and writes them as PNG images.
package chart

import (
	"errors"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrFigureClosed is returned when rendering a figure after Close.
var ErrFigureClosed = errors.New("chart: figure is closed")

// Figure is one chart and the raster canvas it was last drawn on.
// Callers must Close it once the image has been saved or shown.
type Figure struct {
	Name   string
	plot   *plot.Plot
	canvas *vgimg.Canvas
}

func newFigure(name string, p *plot.Plot) *Figure {
	return &Figure{Name: name, plot: p}
}

// Plot exposes the underlying plot for inspection.
func (f *Figure) Plot() *plot.Plot { return f.plot }

// WritePNG draws the figure on a width x height canvas at dpi and encodes it to w.
func (f *Figure) WritePNG(w io.Writer, width, height vg.Length, dpi int) (int64, error) {
	if f.plot == nil {
		return 0, ErrFigureClosed
	}
	f.canvas = vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	f.plot.Draw(draw.New(f.canvas))
	return vgimg.PngCanvas{Canvas: f.canvas}.WriteTo(w)
}

// Close releases the plot and its canvas. It is safe to call more than once.
func (f *Figure) Close() error {
	f.plot = nil
	f.canvas = nil
	return nil
}
