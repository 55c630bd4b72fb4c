package aggregate

import (
	"math"
	"sort"

	"hrpulse/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// densityPoints is the resolution of violin density curves
const densityPoints = 32

// DistributionOption tweaks GroupedDistribution
type DistributionOption func(*distributionConfig)

type distributionConfig struct {
	density bool
}

// WithDensity attaches a kernel density curve to each group, for violin charts
func WithDensity() DistributionOption {
	return func(c *distributionConfig) { c.density = true }
}

// GroupedDistribution summarizes the numeric field value for every
// (group, secondary) combination present in the view. Groups are in
// first-seen order, secondaries first-seen within the view.
func GroupedDistribution(view dataset.View, value, group, secondary dataset.Field, opts ...DistributionOption) []BoxStats {
	cfg := distributionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make([]BoxStats, 0)
	if view.Empty() {
		return out
	}

	var groups, secondaries []string
	gSeen, sSeen := make(map[string]bool), make(map[string]bool)
	type key struct{ g, s string }
	samples := make(map[key][]float64)
	for i := 0; i < view.Len(); i++ {
		g, s := view.Categorical(group, i), view.Categorical(secondary, i)
		if !gSeen[g] {
			gSeen[g] = true
			groups = append(groups, g)
		}
		if !sSeen[s] {
			sSeen[s] = true
			secondaries = append(secondaries, s)
		}
		x := view.Numeric(value, i)
		if !math.IsNaN(x) {
			samples[key{g, s}] = append(samples[key{g, s}], x)
		}
	}

	for _, g := range groups {
		for _, s := range secondaries {
			data, ok := samples[key{g, s}]
			if !ok {
				continue
			}
			box := Summarize(data)
			box.Group, box.Secondary = g, s
			if cfg.density {
				box.Density = KernelDensity(data, densityPoints)
			}
			out = append(out, box)
		}
	}
	return out
}

// Summarize computes the five-number summary, mean and Tukey whiskers of a
// sample. Quartiles are the medians of the lower and upper halves (the
// middle value is excluded for odd n). A single value collapses every
// statistic onto it.
func Summarize(data []float64) BoxStats {
	box := BoxStats{N: len(data)}
	if len(data) == 0 {
		return box
	}

	box.Min, _ = stats.Min(data)
	box.Max, _ = stats.Max(data)
	box.Mean, _ = stats.Mean(data)
	if len(data) == 1 {
		box.Q1, box.Median, box.Q3 = data[0], data[0], data[0]
		box.LowerWhisker, box.UpperWhisker = data[0], data[0]
		return box
	}

	q, err := stats.Quartile(data)
	if err != nil {
		return box
	}
	box.Q1, box.Median, box.Q3 = q.Q1, q.Q2, q.Q3

	iqr := box.Q3 - box.Q1
	lowFence, highFence := box.Q1-1.5*iqr, box.Q3+1.5*iqr
	box.LowerWhisker, box.UpperWhisker = box.Max, box.Min

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	for _, x := range sorted {
		if x < lowFence || x > highFence {
			box.Outliers = append(box.Outliers, x)
			continue
		}
		box.LowerWhisker = math.Min(box.LowerWhisker, x)
		box.UpperWhisker = math.Max(box.UpperWhisker, x)
	}
	return box
}

// KernelDensity evaluates a Gaussian kernel density estimate at n evenly
// spaced points over the sample range, using Silverman's rule of thumb for
// the bandwidth. It returns nil when the sample has no spread.
func KernelDensity(data []float64, n int) []DensityPoint {
	if len(data) < 2 || n < 2 {
		return nil
	}
	bw := silvermanBandwidth(data)
	if bw <= 0 || math.IsNaN(bw) {
		return nil
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	kernel := distuv.UnitNormal
	step := (hi - lo) / float64(n-1)
	norm := 1 / (float64(len(data)) * bw)
	out := make([]DensityPoint, n)
	for i := range out {
		x := lo + float64(i)*step
		sum := 0.0
		for _, xi := range data {
			sum += kernel.Prob((x - xi) / bw)
		}
		out[i] = DensityPoint{X: x, Density: sum * norm}
	}
	return out
}

func silvermanBandwidth(data []float64) float64 {
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return 0
	}
	spread := sd
	if q, err := stats.Quartile(data); err == nil {
		if iqr := (q.Q3 - q.Q1) / 1.34; iqr > 0 && iqr < spread {
			spread = iqr
		}
	}
	return 0.9 * spread * math.Pow(float64(len(data)), -0.2)
}
