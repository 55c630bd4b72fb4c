package aggregate

import (
	"math"
	"sort"

	"hrpulse/domain/dataset"

	"gonum.org/v1/gonum/floats"
)

// DefaultBins is the bucket count of the dashboard's numeric histograms
const DefaultBins = 20

// Histogram buckets a numeric field into a fixed number of equal-width bins
// spanning the view's observed min and max. A degenerate range (one distinct
// value) is widened by half a unit on each side so the bin count stays fixed.
func Histogram(view dataset.View, field dataset.Field, bins int) NumericHistogram {
	h := NumericHistogram{Field: field, Bins: make([]Bin, 0)}
	if bins <= 0 {
		bins = DefaultBins
	}
	lo, hi, ok := view.Bounds(field)
	if !ok {
		return h
	}
	h.Min, h.Max, h.Total = lo, hi, view.Len()

	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := binEdges(lo, hi, bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
	}

	// Bin k holds edges[k] <= x < edges[k+1]; the last bin is closed.
	for i := 0; i < view.Len(); i++ {
		x := view.Numeric(field, i)
		b := sort.Search(bins-1, func(k int) bool { return edges[k+1] > x })
		h.Bins[b].Count++
	}
	return h
}

// binEdges spaces bins+1 edges evenly over [lo, hi]. A range wider than
// MaxFloat64 is interpolated from both ends so every edge stays finite.
func binEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(edges, lo, hi)
	}
	for i := range edges {
		t := float64(i) / float64(bins)
		edges[i] = lo*(1-t) + hi*t
	}
	return edges
}

// GroupedHistogram counts each distinct value of an ordinal numeric field
// (x axis, ascending) split into one zero-filled series per color level
// (first-seen order), as in a grouped bar chart.
func GroupedHistogram(view dataset.View, value, color dataset.Field) GroupedCounts {
	g := GroupedCounts{
		Value:      value,
		Color:      color,
		Categories: make([]float64, 0),
		Series:     make([]CountSeries, 0),
	}
	if view.Empty() {
		return g
	}

	seen := make(map[float64]bool)
	for i := 0; i < view.Len(); i++ {
		x := view.Numeric(value, i)
		if math.IsNaN(x) || seen[x] {
			continue
		}
		seen[x] = true
		g.Categories = append(g.Categories, x)
	}
	sort.Float64s(g.Categories)
	xPos := make(map[float64]int, len(g.Categories))
	for i, x := range g.Categories {
		xPos[x] = i
	}

	sPos := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		x := view.Numeric(value, i)
		if math.IsNaN(x) {
			continue
		}
		name := view.Categorical(color, i)
		s, ok := sPos[name]
		if !ok {
			s = len(g.Series)
			sPos[name] = s
			g.Series = append(g.Series, CountSeries{Name: name, Counts: make([]int, len(g.Categories))})
		}
		g.Series[s].Counts[xPos[x]]++
	}
	return g
}
