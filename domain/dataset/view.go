package dataset

import "math"

// View is a read-only subset of a table: an ordered index list into the
// parent, so no record data is copied. Views never reorder records.
type View struct {
	table *Table
	index []int
}

// NewView builds a view over the given row positions. Positions must be
// ascending and in range; callers in this module only derive them by filtering.
func NewView(t *Table, rows []int) View {
	index := make([]int, len(rows))
	copy(index, rows)
	return View{table: t, index: index}
}

// Table returns the parent table
func (v View) Table() *Table { return v.table }

// Len returns the number of records in the view
func (v View) Len() int { return len(v.index) }

// Empty reports whether the view has no records
func (v View) Empty() bool { return len(v.index) == 0 }

// Rows returns the parent row positions of the view
func (v View) Rows() []int {
	out := make([]int, len(v.index))
	copy(out, v.index)
	return out
}

// Record returns the i-th record of the view
func (v View) Record(i int) Record { return v.table.Record(v.index[i]) }

// Categorical returns a categorical value of the i-th record
func (v View) Categorical(field Field, i int) string {
	return v.table.Categorical(field, v.index[i])
}

// Numeric returns a numeric value of the i-th record
func (v View) Numeric(field Field, i int) float64 {
	return v.table.Numeric(field, v.index[i])
}

// Values collects a numeric column over the view
func (v View) Values(field Field) []float64 {
	out := make([]float64, len(v.index))
	for i, row := range v.index {
		out[i] = v.table.Numeric(field, row)
	}
	return out
}

// Strings collects a categorical column over the view
func (v View) Strings(field Field) []string {
	out := make([]string, len(v.index))
	for i, row := range v.index {
		out[i] = v.table.Categorical(field, row)
	}
	return out
}

// Where returns the stable subsequence of records satisfying keep
func (v View) Where(keep func(Record) bool) View {
	index := make([]int, 0, len(v.index))
	for _, row := range v.index {
		if keep(v.table.Record(row)) {
			index = append(index, row)
		}
	}
	return View{table: v.table, index: index}
}

// Bounds returns the min and max of a numeric field over the view
func (v View) Bounds(field Field) (lo, hi float64, ok bool) {
	if len(v.index) == 0 {
		return 0, 0, false
	}
	if _, present := v.table.numeric[field]; !present {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range v.index {
		x := v.table.Numeric(field, row)
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi, true
}

// Predicate is an equality test on a categorical field, e.g. Attrition == "Yes"
type Predicate struct {
	Field Field  `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// Match reports whether a record satisfies the predicate
func (p Predicate) Match(r Record) bool {
	return r.Categorical(p.Field) == p.Value
}

// WhereEquals narrows the view to records matching p
func (v View) WhereEquals(p Predicate) View {
	return v.Where(p.Match)
}
