package calculator

import (
	"math"

	"MarketCorrelator/internal/model"
)

// Returns computes day-over-day percentage returns: price[t]/price[t-1] - 1.
//
// Interior gaps are padded with the last observed price, so a missing day yields
// a zero return and the next observation is measured against the last one seen.
// The first row never has a return and is dropped, as is every row where any
// ticker is still undefined.
func Returns(t *model.PriceTable) *model.PriceTable {
	out := model.NewPriceTable(t.Dates, t.Tickers)
	for j, col := range t.Columns {
		prev := math.NaN()
		for i, v := range col {
			cur := v
			if math.IsNaN(cur) {
				cur = prev
			}
			if i > 0 && !math.IsNaN(prev) && !math.IsNaN(cur) {
				out.Columns[j][i] = cur/prev - 1
			}
			prev = cur
		}
	}
	if out.Len() > 0 {
		out.Dates = out.Dates[1:]
		for j := range out.Columns {
			out.Columns[j] = out.Columns[j][1:]
		}
	}
	return out.DropIncompleteRows()
}
