package aggregate

import (
	"encoding/json"
	"math"

	"hrpulse/domain/dataset"
)

// CategoryCount is one row of a frequency table
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution holds raw counts per category; shares are derived on demand
type Distribution struct {
	Field  dataset.Field   `json:"field"`
	Total  int             `json:"total"`
	Slices []CategoryCount `json:"slices"`
}

// Proportion returns the share of value in the distribution, 0 when absent
func (d Distribution) Proportion(value string) float64 {
	if d.Total == 0 {
		return 0
	}
	for _, s := range d.Slices {
		if s.Value == value {
			return float64(s.Count) / float64(d.Total)
		}
	}
	return 0
}

// ProportionTable is a group × outcome grid of within-group shares.
// Proportions[g][o] is the share of outcome o among rows of group g.
type ProportionTable struct {
	GroupField   dataset.Field `json:"group_field"`
	OutcomeField dataset.Field `json:"outcome_field"`
	Groups       []string      `json:"groups"`
	Outcomes     []string      `json:"outcomes"`
	GroupSizes   []int         `json:"group_sizes"`
	Proportions  [][]float64   `json:"proportions"`
}

// Proportion looks up one cell, 0 for unknown labels
func (p ProportionTable) Proportion(group, outcome string) float64 {
	gi, oi := indexOf(p.Groups, group), indexOf(p.Outcomes, outcome)
	if gi < 0 || oi < 0 {
		return 0
	}
	return p.Proportions[gi][oi]
}

// Breakdown is a two-level count table over a predicate-filtered subset
type Breakdown struct {
	Predicate       dataset.Predicate `json:"predicate"`
	Primary         dataset.Field     `json:"primary"`
	Secondary       dataset.Field     `json:"secondary"`
	Total           int               `json:"total"`
	PrimaryLevels   []string          `json:"primary_levels"`
	SecondaryLevels []string          `json:"secondary_levels"`
	Counts          [][]int           `json:"counts"`
}

// Count looks up one cell, 0 for unknown labels
func (b Breakdown) Count(primary, secondary string) int {
	pi, si := indexOf(b.PrimaryLevels, primary), indexOf(b.SecondaryLevels, secondary)
	if pi < 0 || si < 0 {
		return 0
	}
	return b.Counts[pi][si]
}

// Bin is one histogram bucket, [Lower, Upper) except the last which is closed
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// NumericHistogram is a fixed-bucket-count histogram over the observed range
type NumericHistogram struct {
	Field dataset.Field `json:"field"`
	Min   float64       `json:"min"`
	Max   float64       `json:"max"`
	Total int           `json:"total"`
	Bins  []Bin         `json:"bins"`
}

// CountSeries is one colored series of a grouped bar chart
type CountSeries struct {
	Name   string `json:"name"`
	Counts []int  `json:"counts"`
}

// GroupedCounts counts distinct values of an ordinal field, one series per color level
type GroupedCounts struct {
	Value      dataset.Field `json:"value"`
	Color      dataset.Field `json:"color"`
	Categories []float64     `json:"categories"`
	Series     []CountSeries `json:"series"`
}

// DensityPoint is one sample of a kernel density curve
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// BoxStats summarizes the full distribution of one group
type BoxStats struct {
	Group        string         `json:"group"`
	Secondary    string         `json:"secondary"`
	N            int            `json:"n"`
	Min          float64        `json:"min"`
	Q1           float64        `json:"q1"`
	Median       float64        `json:"median"`
	Q3           float64        `json:"q3"`
	Max          float64        `json:"max"`
	Mean         float64        `json:"mean"`
	LowerWhisker float64        `json:"lower_whisker"`
	UpperWhisker float64        `json:"upper_whisker"`
	Outliers     []float64      `json:"outliers,omitempty"`
	Density      []DensityPoint `json:"density,omitempty"`
}

// Matrix is a symmetric correlation matrix. Undefined coefficients are NaN
// and encode as JSON null.
type Matrix struct {
	Fields []dataset.Field `json:"fields"`
	Values [][]float64     `json:"values"`
}

// At returns the coefficient for a pair of fields, NaN when either is absent
func (m Matrix) At(a, b dataset.Field) float64 {
	i, j := fieldIndex(m.Fields, a), fieldIndex(m.Fields, b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// MarshalJSON writes NaN cells as null
func (m Matrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				values[i][j] = &row[j]
			}
		}
	}
	fields := m.Fields
	if fields == nil {
		fields = []dataset.Field{}
	}
	return json.Marshal(struct {
		Fields []dataset.Field `json:"fields"`
		Values [][]*float64    `json:"values"`
	}{fields, values})
}

// Point is one scatter point
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrendLine is an ordinary least squares fit y = Intercept + Slope·x,
// drawn over [XMin, XMax].
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	XMin      float64 `json:"x_min"`
	XMax      float64 `json:"x_max"`
	N         int     `json:"n"`
}

// At evaluates the line
func (t TrendLine) At(x float64) float64 { return t.Intercept + t.Slope*x }

// ScatterGroup is the points of one color level and its optional fit
type ScatterGroup struct {
	Name   string     `json:"name"`
	Points []Point    `json:"points"`
	Trend  *TrendLine `json:"trend,omitempty"`
}

// ScatterPlot is a bivariate scatter split by a categorical color field
type ScatterPlot struct {
	X      dataset.Field  `json:"x"`
	Y      dataset.Field  `json:"y"`
	Color  dataset.Field  `json:"color,omitempty"`
	Groups []ScatterGroup `json:"groups"`
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func fieldIndex(fields []dataset.Field, f dataset.Field) int {
	for i, x := range fields {
		if x == f {
			return i
		}
	}
	return -1
}
