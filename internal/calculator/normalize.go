package calculator

import (
	"math"

	"MarketCorrelator/internal/model"
)

// Normalize divides each column by its own first observed value so every series starts at 1.0.
// Columns and then rows left without any value are dropped, and infinities become NaN.
func Normalize(t *model.PriceTable) *model.PriceTable {
	scaled := t.Clone()
	for _, col := range scaled.Columns {
		base := math.NaN()
		for _, v := range col {
			if !math.IsNaN(v) {
				base = v
				break
			}
		}
		for i := range col {
			col[i] /= base
		}
	}

	reduced, _ := DropEmptyColumns(scaled)
	reduced = reduced.DropEmptyRows()
	for _, col := range reduced.Columns {
		for i, v := range col {
			if math.IsInf(v, 0) {
				col[i] = math.NaN()
			}
		}
	}
	return reduced
}

// HasFinite reports whether any cell of t holds a finite value.
func HasFinite(t *model.PriceTable) bool {
	if t == nil {
		return false
	}
	for _, col := range t.Columns {
		for _, v := range col {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
