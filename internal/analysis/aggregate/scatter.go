package aggregate

import (
	"math"

	"hrpulse/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Scatter pairs x and y per record, split by the color field's levels in
// first-seen order. An empty color field puts every point in one group named
// "all". With trend set, each group gets an OLS line unless it has fewer than
// two points or no spread in x.
func Scatter(view dataset.View, x, y, color dataset.Field, trend bool) ScatterPlot {
	s := ScatterPlot{X: x, Y: y, Color: color, Groups: make([]ScatterGroup, 0)}

	pos := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		name := "all"
		if color != "" {
			name = view.Categorical(color, i)
		}
		g, ok := pos[name]
		if !ok {
			g = len(s.Groups)
			pos[name] = g
			s.Groups = append(s.Groups, ScatterGroup{Name: name})
		}
		s.Groups[g].Points = append(s.Groups[g].Points, Point{X: view.Numeric(x, i), Y: view.Numeric(y, i)})
	}

	if trend {
		for g := range s.Groups {
			s.Groups[g].Trend = FitLine(s.Groups[g].Points)
		}
	}
	return s
}

// FitLine returns the least squares line through points, or nil when the fit
// is undefined or does not fit in a float64.
func FitLine(points []Point) *TrendLine {
	if len(points) < 2 {
		return nil
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	if v := stat.Variance(xs, nil); !(v > 0) {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if !finite(alpha) || !finite(beta) {
		return nil
	}
	line := &TrendLine{Slope: beta, Intercept: alpha, N: len(points)}
	line.XMin, _ = stats.Min(xs)
	line.XMax, _ = stats.Max(xs)

	// Constant y is fit exactly by the horizontal line.
	if v := stat.Variance(ys, nil); v > 0 {
		line.RSquared = stat.RSquared(xs, ys, nil, alpha, beta)
		if !finite(line.RSquared) {
			return nil
		}
	} else {
		line.RSquared = 1
	}
	return line
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
