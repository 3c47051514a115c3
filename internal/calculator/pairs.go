package calculator

import (
	"math"
	"sort"

	"MarketCorrelator/internal/model"
)

// TopPairs returns up to n unique ticker pairs with the highest correlation.
// Only the strictly upper triangle is considered, so self-pairs and mirrored
// duplicates never appear; undefined correlations are skipped. Equal values
// are ordered by (A, B).
func TopPairs(m *model.CorrelationMatrix, n int) []model.Pair {
	if m.Empty() || n <= 0 {
		return nil
	}
	var pairs []model.Pair
	for i := 0; i < m.Len(); i++ {
		for j := i + 1; j < m.Len(); j++ {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			pairs = append(pairs, model.Pair{A: m.Tickers[i], B: m.Tickers[j], Value: v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Value != pairs[j].Value {
			return pairs[i].Value > pairs[j].Value
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
