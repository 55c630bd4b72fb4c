package aggregate

import (
	"math"

	"hrpulse/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes pairwise Pearson correlation over every numeric
// field of the view's table (schema order) except the identifier and the
// excluded ones. A coefficient is NaN when either field has zero variance or
// the view has fewer than two rows; the diagonal is 1 wherever the variance
// is nonzero.
// An empty view yields a zero-size matrix.
func CorrelationMatrix(view dataset.View, exclude ...dataset.Field) Matrix {
	m := Matrix{Fields: make([]dataset.Field, 0), Values: make([][]float64, 0)}
	if view.Empty() {
		return m
	}

	skip := map[dataset.Field]bool{dataset.IdentifierField: true}
	for _, f := range exclude {
		skip[f] = true
	}
	for _, f := range view.Table().Schema().Fields(dataset.KindNumeric) {
		if !skip[f] {
			m.Fields = append(m.Fields, f)
		}
	}

	columns := make([][]float64, len(m.Fields))
	varies := make([]bool, len(m.Fields))
	for i, f := range m.Fields {
		columns[i] = view.Values(f)
		if len(columns[i]) >= 2 {
			v := stat.Variance(columns[i], nil)
			varies[i] = v > 0 && !math.IsNaN(v)
		}
	}

	m.Values = make([][]float64, len(m.Fields))
	for i := range m.Values {
		m.Values[i] = make([]float64, len(m.Fields))
	}
	for i := range m.Fields {
		for j := i; j < len(m.Fields); j++ {
			r := math.NaN()
			switch {
			case !varies[i] || !varies[j]:
			case i == j:
				r = 1
			default:
				r = clamp(stat.Correlation(columns[i], columns[j], nil), -1, 1)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Max(lo, math.Min(hi, x))
}
