package calculator

import (
	"math"
	"sort"

	"MarketCorrelator/internal/model"
)

// DropEmptyColumns removes tickers without a single observation.
// It returns the reduced table and the sorted names of the dropped tickers. Rows are untouched.
func DropEmptyColumns(t *model.PriceTable) (*model.PriceTable, []string) {
	var keep, dropped []string
	for j, name := range t.Tickers {
		if hasValue(t.Columns[j]) {
			keep = append(keep, name)
		} else {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) == 0 {
		return t, nil
	}
	sort.Strings(dropped)
	return t.Select(keep), dropped
}

func hasValue(col []float64) bool {
	for _, v := range col {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}
