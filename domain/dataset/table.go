package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawTable is an untyped grid of cells as read from a source
type RawTable struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Table is the immutable, columnar record table. It is built once by the
// loader and never mutated, so concurrent readers need no locking.
type Table struct {
	source      string
	schema      Schema
	rows        int
	categorical map[Field][]string
	numeric     map[Field][]float64
	levels      map[Field][]string
}

// NewTable validates raw against schema and coerces every cell to its typed
// column. Columns the schema does not know are dropped; the returned table's
// schema lists the present columns in schema order.
func NewTable(raw *RawTable, schema Schema) (*Table, error) {
	if raw == nil || len(raw.Headers) == 0 {
		return nil, NewLoadError(sourceName(raw), ErrMalformed, "no header row", nil)
	}
	if len(raw.Rows) == 0 {
		return nil, NewLoadError(raw.Source, ErrMalformed, "no data rows", nil)
	}

	colIndex := make(map[Field]int)
	for i, h := range raw.Headers {
		col, ok := schema.Match(h)
		if !ok {
			continue
		}
		if prev, dup := colIndex[col.Field]; dup {
			return nil, NewLoadError(raw.Source, ErrSchemaMismatch,
				fmt.Sprintf("column %s appears at positions %d and %d", col.Field, prev+1, i+1), nil)
		}
		colIndex[col.Field] = i
	}

	var missing []string
	for _, col := range schema.Required() {
		if _, ok := colIndex[col.Field]; !ok {
			missing = append(missing, string(col.Field))
		}
	}
	if len(missing) > 0 {
		return nil, NewLoadError(raw.Source, ErrSchemaMismatch,
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}

	t := &Table{
		source:      raw.Source,
		rows:        len(raw.Rows),
		categorical: make(map[Field][]string),
		numeric:     make(map[Field][]float64),
		levels:      make(map[Field][]string),
	}
	for _, col := range schema {
		if _, ok := colIndex[col.Field]; ok {
			t.schema = append(t.schema, col)
			switch col.Kind {
			case KindNumeric:
				t.numeric[col.Field] = make([]float64, t.rows)
			default:
				t.categorical[col.Field] = make([]string, t.rows)
			}
		}
	}

	width := len(raw.Headers)
	for r, row := range raw.Rows {
		if len(row) != width {
			return nil, NewLoadError(raw.Source, ErrMalformed,
				fmt.Sprintf("line %d has %d cells, want %d", r+2, len(row), width), nil)
		}
		for _, col := range t.schema {
			cell := strings.TrimSpace(row[colIndex[col.Field]])
			if col.Kind == KindCategorical {
				t.categorical[col.Field][r] = cell
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, NewLoadError(raw.Source, ErrMalformed,
					fmt.Sprintf("line %d column %s: %q is not numeric", r+2, col.Field, cell), err)
			}
			t.numeric[col.Field][r] = v
		}
	}

	for field, values := range t.categorical {
		seen := make(map[string]bool)
		var levels []string
		for _, v := range values {
			if !seen[v] {
				seen[v] = true
				levels = append(levels, v)
			}
		}
		t.levels[field] = levels
	}

	return t, nil
}

func sourceName(raw *RawTable) string {
	if raw == nil {
		return "<nil>"
	}
	return raw.Source
}

// Source names where the table was read from
func (t *Table) Source() string { return t.source }

// Len returns the number of records
func (t *Table) Len() int { return t.rows }

// Schema returns the columns present in the table
func (t *Table) Schema() Schema { return t.schema }

// Kind reports the kind of a field and whether the table carries it
func (t *Table) Kind(field Field) (Kind, bool) {
	col, ok := t.schema.Lookup(field)
	return col.Kind, ok
}

// Categorical returns the value of a categorical field at row i
func (t *Table) Categorical(field Field, i int) string {
	col, ok := t.categorical[field]
	if !ok {
		return ""
	}
	return col[i]
}

// Numeric returns the value of a numeric field at row i, NaN if absent
func (t *Table) Numeric(field Field, i int) float64 {
	col, ok := t.numeric[field]
	if !ok {
		return math.NaN()
	}
	return col[i]
}

// Levels returns the distinct values of a categorical field in first-seen order
func (t *Table) Levels(field Field) []string {
	levels := t.levels[field]
	out := make([]string, len(levels))
	copy(out, levels)
	return out
}

// NumericBounds returns the min and max of a numeric field over the whole table
func (t *Table) NumericBounds(field Field) (lo, hi float64, ok bool) {
	return t.All().Bounds(field)
}

// Record returns a row accessor
func (t *Table) Record(i int) Record { return Record{table: t, row: i} }

// All returns a view over every record
func (t *Table) All() View {
	index := make([]int, t.rows)
	for i := range index {
		index[i] = i
	}
	return View{table: t, index: index}
}

// Record is one employee's row
type Record struct {
	table *Table
	row   int
}

// Row is the record's position in the table
func (r Record) Row() int { return r.row }

// Categorical returns a categorical field value
func (r Record) Categorical(field Field) string { return r.table.Categorical(field, r.row) }

// Numeric returns a numeric field value
func (r Record) Numeric(field Field) float64 { return r.table.Numeric(field, r.row) }
