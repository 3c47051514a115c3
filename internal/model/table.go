package model

import (
	"math"
	"time"
)

// PriceTable is a date-indexed table with one column per ticker.
// Columns[j][i] is the value of Tickers[j] on Dates[i]; missing cells are NaN.
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Columns [][]float64
}

// NewPriceTable creates a table over dates with one NaN-filled column per ticker.
func NewPriceTable(dates []time.Time, tickers []string) *PriceTable {
	t := &PriceTable{
		Dates:   append([]time.Time(nil), dates...),
		Tickers: append([]string(nil), tickers...),
		Columns: make([][]float64, len(tickers)),
	}
	for j := range t.Columns {
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		t.Columns[j] = col
	}
	return t
}

// Len returns the number of rows.
func (t *PriceTable) Len() int { return len(t.Dates) }

// Empty reports whether the table has no columns or no rows.
func (t *PriceTable) Empty() bool {
	return t == nil || len(t.Tickers) == 0 || len(t.Dates) == 0
}

// Index returns the column index of ticker, or -1.
func (t *PriceTable) Index(ticker string) int {
	for j, name := range t.Tickers {
		if name == ticker {
			return j
		}
	}
	return -1
}

// Column returns the values of ticker and whether it exists.
func (t *PriceTable) Column(ticker string) ([]float64, bool) {
	j := t.Index(ticker)
	if j < 0 {
		return nil, false
	}
	return t.Columns[j], true
}

// Select returns a copy restricted to the given tickers, in that order.
// Unknown tickers are ignored.
func (t *PriceTable) Select(tickers []string) *PriceTable {
	out := &PriceTable{Dates: append([]time.Time(nil), t.Dates...)}
	for _, name := range tickers {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		out.Tickers = append(out.Tickers, name)
		out.Columns = append(out.Columns, append([]float64(nil), col...))
	}
	return out
}

// Clone returns a deep copy.
func (t *PriceTable) Clone() *PriceTable { return t.Select(t.Tickers) }

// DropEmptyRows removes dates where every column is NaN.
func (t *PriceTable) DropEmptyRows() *PriceTable {
	return t.filterRows(func(i int) bool {
		for _, col := range t.Columns {
			if !math.IsNaN(col[i]) {
				return true
			}
		}
		return false
	})
}

// DropIncompleteRows removes dates where any column is NaN.
func (t *PriceTable) DropIncompleteRows() *PriceTable {
	return t.filterRows(func(i int) bool {
		for _, col := range t.Columns {
			if math.IsNaN(col[i]) {
				return false
			}
		}
		return true
	})
}

func (t *PriceTable) filterRows(keep func(i int) bool) *PriceTable {
	out := &PriceTable{
		Tickers: append([]string(nil), t.Tickers...),
		Columns: make([][]float64, len(t.Columns)),
	}
	for i, d := range t.Dates {
		if !keep(i) {
			continue
		}
		out.Dates = append(out.Dates, d)
		for j, col := range t.Columns {
			out.Columns[j] = append(out.Columns[j], col[i])
		}
	}
	return out
}

// CorrelationMatrix is a square ticker x ticker matrix. Undefined entries are NaN.
type CorrelationMatrix struct {
	Tickers []string
	Values  [][]float64
}

// Len returns the number of tickers.
func (m *CorrelationMatrix) Len() int { return len(m.Tickers) }

// Empty reports whether the matrix has no tickers.
func (m *CorrelationMatrix) Empty() bool { return m == nil || len(m.Tickers) == 0 }

// At returns the correlation between ticker i and ticker j.
func (m *CorrelationMatrix) At(i, j int) float64 { return m.Values[i][j] }

// Pair is an unordered ticker pair with its correlation. A precedes B in matrix order.
type Pair struct {
	A     string
	B     string
	Value float64
}
