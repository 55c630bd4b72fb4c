package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	{FieldAge, KindNumeric, true},
	{FieldAttrition, KindCategorical, true},
	{FieldDepartment, KindCategorical, true},
	{FieldMonthlyIncome, KindNumeric, false},
}

func TestNewTable_TypedColumns(t *testing.T) {
	raw := &RawTable{
		Source:  "mem",
		Headers: []string{"Department", " Age ", "Attrition", "Unknown"},
		Rows: [][]string{
			{"A", "30", "Yes", "x"},
			{"A", " 40", "No", "y"},
			{"B", "25", "Yes", "z"},
		},
	}

	tbl, err := NewTable(raw, testSchema)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "mem", tbl.Source())
	assert.Equal(t, 40.0, tbl.Numeric(FieldAge, 1))
	assert.Equal(t, "B", tbl.Categorical(FieldDepartment, 2))
	assert.Equal(t, []string{"A", "B"}, tbl.Levels(FieldDepartment))
	assert.Equal(t, []string{"Yes", "No"}, tbl.Levels(FieldAttrition))

	// Schema order, optional MonthlyIncome absent, Unknown dropped
	assert.Equal(t, []Field{FieldAge, FieldAttrition, FieldDepartment},
		append(tbl.Schema().Fields(KindNumeric), tbl.Schema().Fields(KindCategorical)...))

	_, ok := tbl.Kind(FieldMonthlyIncome)
	assert.False(t, ok)

	lo, hi, ok := tbl.NumericBounds(FieldAge)
	require.True(t, ok)
	assert.Equal(t, 25.0, lo)
	assert.Equal(t, 40.0, hi)
}

func TestNewTable_CaseInsensitiveHeaders(t *testing.T) {
	raw := &RawTable{
		Source:  "pg",
		Headers: []string{"department", "age", "attrition"},
		Rows:    [][]string{{"A", "30", "Yes"}},
	}
	tbl, err := NewTable(raw, testSchema)
	require.NoError(t, err)
	assert.Equal(t, "A", tbl.Record(0).Categorical(FieldDepartment))
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawTable
		kind error
	}{
		{"nil", nil, ErrMalformed},
		{"no header", &RawTable{Source: "f"}, ErrMalformed},
		{"no rows", &RawTable{Source: "f", Headers: []string{"Age", "Attrition", "Department"}}, ErrMalformed},
		{
			"missing required",
			&RawTable{Source: "f", Headers: []string{"Age", "Attrition"}, Rows: [][]string{{"1", "Yes"}}},
			ErrSchemaMismatch,
		},
		{
			"duplicate column",
			&RawTable{Source: "f", Headers: []string{"Age", "age", "Attrition", "Department"}, Rows: [][]string{{"1", "2", "Yes", "A"}}},
			ErrSchemaMismatch,
		},
		{
			"ragged row",
			&RawTable{Source: "f", Headers: []string{"Age", "Attrition", "Department"}, Rows: [][]string{{"1", "Yes"}}},
			ErrMalformed,
		},
		{
			"non numeric",
			&RawTable{Source: "f", Headers: []string{"Age", "Attrition", "Department"}, Rows: [][]string{{"thirty", "Yes", "A"}}},
			ErrMalformed,
		},
		{
			"nan cell",
			&RawTable{Source: "f", Headers: []string{"Age", "Attrition", "Department"}, Rows: [][]string{{"NaN", "Yes", "A"}}},
			ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.raw, testSchema)
			require.Error(t, err)
			assert.True(t, IsLoadError(err))
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
		})
	}
}

func TestView_WhereIsStable(t *testing.T) {
	raw := &RawTable{
		Source:  "mem",
		Headers: []string{"Age", "Attrition", "Department"},
		Rows: [][]string{
			{"30", "Yes", "A"},
			{"40", "No", "A"},
			{"25", "Yes", "B"},
			{"50", "Yes", "A"},
		},
	}
	tbl, err := NewTable(raw, testSchema)
	require.NoError(t, err)

	yes := tbl.All().WhereEquals(Predicate{Field: FieldAttrition, Value: "Yes"})
	assert.Equal(t, []int{0, 2, 3}, yes.Rows())
	assert.Equal(t, []float64{30, 25, 50}, yes.Values(FieldAge))
	assert.Equal(t, []string{"A", "B", "A"}, yes.Strings(FieldDepartment))

	none := yes.Where(func(Record) bool { return false })
	assert.True(t, none.Empty())
	_, _, ok := none.Bounds(FieldAge)
	assert.False(t, ok)
}

func TestEmployeeSchema_RequiredColumns(t *testing.T) {
	var names []Field
	for _, c := range EmployeeSchema.Required() {
		names = append(names, c.Field)
	}
	assert.ElementsMatch(t, []Field{
		FieldDepartment, FieldGender, FieldEducationField, FieldJobRole, FieldAttrition,
		FieldAge, FieldMonthlyIncome, FieldYearsAtCompany, FieldJobSatisfaction, FieldEmployeeNumber,
	}, names)
}
