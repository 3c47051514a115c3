package calculator

import (
	"math"

	"MarketCorrelator/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Correlation computes the pairwise Pearson correlation of the table's columns.
// Each pair uses only the dates where both columns are defined. Pairs with fewer
// than two such dates, or where either side has zero variance, are NaN.
func Correlation(t *model.PriceTable) *model.CorrelationMatrix {
	n := len(t.Tickers)
	m := &model.CorrelationMatrix{
		Tickers: append([]string(nil), t.Tickers...),
		Values:  make([][]float64, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(t.Columns[i], t.Columns[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 || stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}
