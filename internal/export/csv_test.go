package export

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"MarketCorrelator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *model.PriceTable {
	dates := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	t := model.NewPriceTable(dates, []string{"AAPL", "MSFT"})
	copy(t.Columns[0], []float64{185.64, 184.25})
	copy(t.Columns[1], []float64{math.NaN(), 370.6000061035156})
	return t
}

func TestCSVFileName(t *testing.T) {
	tests := []struct {
		tickers []string
		want    string
	}{
		{[]string{"SPY"}, "prices_S_SPY_adj_close.csv"},
		{[]string{"A", "B", "C", "D", "E"}, "prices_S_A_B_C_D_E_adj_close.csv"},
		{[]string{"A", "B", "C", "D", "E", "F"}, "prices_S_A_B_C_D_E_more_adj_close.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSVFileName("S", tt.tickers))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Date,AAPL,MSFT",
		"2024-01-02,185.64,",
		"2024-01-03,184.25,370.6000061035156",
	}, lines)
}

func TestRoundTrip(t *testing.T) {
	in := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)

	assert.Equal(t, in.Dates, out.Dates)
	assert.Equal(t, in.Tickers, out.Tickers)
	for j := range in.Columns {
		for i := range in.Columns[j] {
			want, got := in.Columns[j][i], out.Columns[j][i]
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got))
				continue
			}
			assert.Equal(t, want, got)
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
	_, err = ReadCSV(strings.NewReader("Day,A\n2024-01-02,1\n"))
	assert.Error(t, err)
	_, err = ReadCSV(strings.NewReader("Date,A\n2024-01-02,abc\n"))
	assert.Error(t, err)
}

func TestSaveCSV(t *testing.T) {
	dir := t.TempDir() + "/nested"
	path, err := SaveCSV(dir, "20240101T000000Z", []string{"AAPL", "MSFT", "GONE"}, sample())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "prices_20240101T000000Z_AAPL_MSFT_GONE_adj_close.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,AAPL,MSFT\n"))
}
