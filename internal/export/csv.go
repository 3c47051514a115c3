// Package export writes the price table to CSV and reads it back.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"MarketCorrelator/internal/model"
)

const dateLayout = "2006-01-02"

// DateHeader labels the index column.
const DateHeader = "Date"

// CSVFileName returns prices_<stamp>_<first five tickers>[_more]_adj_close.csv.
func CSVFileName(stamp string, tickers []string) string {
	part := tickers
	if len(part) > 5 {
		part = part[:5]
	}
	name := strings.Join(part, "_")
	if len(tickers) > 5 {
		name += "_more"
	}
	return fmt.Sprintf("prices_%s_%s_adj_close.csv", stamp, name)
}

// WriteCSV encodes t with a Date column followed by one column per ticker.
// Missing values are written as empty cells.
func WriteCSV(w io.Writer, t *model.PriceTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{DateHeader}, t.Tickers...)); err != nil {
		return err
	}
	row := make([]string, len(t.Tickers)+1)
	for i, d := range t.Dates {
		row[0] = d.Format(dateLayout)
		for j, col := range t.Columns {
			row[j+1] = formatFloat(col[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV decodes a table written by WriteCSV.
func ReadCSV(r io.Reader) (*model.PriceTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}
	header := records[0]
	if len(header) == 0 || header[0] != DateHeader {
		return nil, fmt.Errorf("read csv: first column must be %q", DateHeader)
	}

	dates := make([]time.Time, 0, len(records)-1)
	for _, rec := range records[1:] {
		d, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		dates = append(dates, d)
	}

	t := model.NewPriceTable(dates, header[1:])
	for i, rec := range records[1:] {
		for j := range t.Tickers {
			cell := strings.TrimSpace(rec[j+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: row %d, %s: %w", i+1, t.Tickers[j], err)
			}
			t.Columns[j][i] = v
		}
	}
	return t, nil
}

// SaveCSV writes t into dir under CSVFileName and returns the path.
// tickers names the file and is usually the requested list, not the surviving columns.
func SaveCSV(dir, stamp string, tickers []string, t *model.PriceTable) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, CSVFileName(stamp, tickers))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv: %w", err)
	}
	return path, nil
}
