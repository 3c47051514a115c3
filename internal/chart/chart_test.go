package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketCorrelator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type fakeViewer struct {
	shown []string
	err   error
}

func (v *fakeViewer) Show(path string) error {
	v.shown = append(v.shown, path)
	return v.err
}

func sampleTable() *model.PriceTable {
	dates := make([]time.Time, 6)
	for i := range dates {
		dates[i] = time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC)
	}
	t := model.NewPriceTable(dates, []string{"AAA", "BBB"})
	copy(t.Columns[0], []float64{1, 1.02, 1.01, 1.05, 1.04, 1.08})
	copy(t.Columns[1], []float64{1, 0.99, math.NaN(), 0.97, 1.0, 1.01})
	return t
}

func sampleMatrix() *model.CorrelationMatrix {
	return &model.CorrelationMatrix{
		Tickers: []string{"AAA", "BBB", "CCC"},
		Values: [][]float64{
			{1, 0.42, -0.7},
			{0.42, 1, math.NaN()},
			{-0.7, math.NaN(), 1},
		},
	}
}

func TestSegments_SplitsOnGaps(t *testing.T) {
	segs := segments(sampleTable(), 1)
	require.Len(t, segs, 2)
	assert.Len(t, segs[0], 2)
	assert.Len(t, segs[1], 3)
}

func TestNormalizedPriceChart(t *testing.T) {
	fig, err := NormalizedPriceChart(sampleTable())
	require.NoError(t, err)
	defer fig.Close()

	assert.Equal(t, NormalizedPriceName, fig.Name)
	assert.Equal(t, NormalizedPriceTitle, fig.Plot().Title.Text)

	var buf bytes.Buffer
	n, err := fig.WritePNG(&buf, 200, 150, 72)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestCorrelationHeatmap(t *testing.T) {
	fig, err := CorrelationHeatmap(sampleMatrix())
	require.NoError(t, err)
	defer fig.Close()

	assert.Equal(t, CorrelationHeatmapTitle, fig.Plot().Title.Text)

	var buf bytes.Buffer
	_, err = fig.WritePNG(&buf, 200, 200, 72)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestCorrelationHeatmap_SingleTicker(t *testing.T) {
	fig, err := CorrelationHeatmap(&model.CorrelationMatrix{Tickers: []string{"ONLY"}, Values: [][]float64{{1}}})
	require.NoError(t, err)
	defer fig.Close()

	var buf bytes.Buffer
	_, err = fig.WritePNG(&buf, 100, 100, 72)
	assert.NoError(t, err)
}

func TestCorrelationHeatmap_Empty(t *testing.T) {
	_, err := CorrelationHeatmap(&model.CorrelationMatrix{})
	assert.Error(t, err)
}

func TestCorrGrid_TopRowIsFirstTickerAndClamped(t *testing.T) {
	m := sampleMatrix()
	m.Values[0][2], m.Values[2][0] = -1.3, -1.3
	g := corrGrid{m}

	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, r)
	// top row (r = 2) holds ticker 0
	assert.Equal(t, 1.0, g.Z(0, 2))
	assert.Equal(t, 0.42, g.Z(1, 2))
	assert.Equal(t, -1.0, g.Z(2, 2))
	assert.True(t, math.IsNaN(g.Z(2, 1)))
}

func TestFigure_CloseIsIdempotent(t *testing.T) {
	fig, err := NormalizedPriceChart(sampleTable())
	require.NoError(t, err)

	require.NoError(t, fig.Close())
	require.NoError(t, fig.Close())
	_, err = fig.WritePNG(&bytes.Buffer{}, 100, 100, 72)
	assert.ErrorIs(t, err, ErrFigureClosed)
}

func TestOutput_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	out := NewOutput(dir, "20240301T120000Z", 50, 3, 2, nil, nil)

	fig, err := CorrelationHeatmap(sampleMatrix())
	require.NoError(t, err)
	defer fig.Close()

	path, err := out.Save(fig)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "correlation_heatmap_20240301T120000Z.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestOutput_Show(t *testing.T) {
	viewer := &fakeViewer{}
	out := NewOutput(t.TempDir(), "stamp", 50, 3, 2, viewer, nil)

	fig, err := NormalizedPriceChart(sampleTable())
	require.NoError(t, err)
	defer fig.Close()

	path, err := out.Show(fig)
	require.NoError(t, err)
	defer os.Remove(path)

	require.Equal(t, []string{path}, viewer.shown)
	entries, err := os.ReadDir(out.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "display mode must not write into the output dir")
}
