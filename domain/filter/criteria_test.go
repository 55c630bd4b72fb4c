package filter_test

import (
	"errors"
	"testing"

	"hrpulse/domain/core"
	"hrpulse/domain/dataset"
	"hrpulse/domain/filter"
	"hrpulse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Scenario(t *testing.T) {
	tbl := testkit.ScenarioTable(t)

	view := filter.Apply(tbl, filter.New().WithCategories(dataset.FieldDepartment, "A"))

	assert.Equal(t, []int{0, 1}, view.Rows())
	assert.Equal(t, []float64{30, 40}, view.Values(dataset.FieldAge))
}

func TestApply_NoCriteriaKeepsEverything(t *testing.T) {
	tbl := testkit.ScenarioTable(t)
	assert.Equal(t, 3, filter.Apply(tbl, filter.Criteria{}).Len())
	assert.Equal(t, 3, filter.Apply(tbl, filter.New()).Len())
}

func TestApply_EmptyAllowedSet(t *testing.T) {
	tbl := testkit.ScenarioTable(t)
	view := filter.Apply(tbl, filter.New().WithCategories(dataset.FieldDepartment))
	assert.True(t, view.Empty())
}

func TestApply_InvertedRange(t *testing.T) {
	tbl := testkit.ScenarioTable(t)
	view := filter.Apply(tbl, filter.New().WithRange(dataset.FieldAge, 40, 30))
	assert.True(t, view.Empty())
}

func TestApply_RangeIsInclusive(t *testing.T) {
	tbl := testkit.ScenarioTable(t)
	view := filter.Apply(tbl, filter.New().WithRange(dataset.FieldAge, 25, 30))
	assert.Equal(t, []int{0, 2}, view.Rows())
}

func TestApply_AbsentFieldMatchesNothing(t *testing.T) {
	tbl := testkit.ScenarioTable(t)
	assert.True(t, filter.Apply(tbl, filter.New().WithCategories(dataset.FieldGender, "")).Empty())
	assert.True(t, filter.Apply(tbl, filter.New().WithRange(dataset.FieldMonthlyIncome, 0, 1e9)).Empty())
}

func TestApply_SubsetAndIdempotent(t *testing.T) {
	tbl := testkit.Employees(t, 500, 3)

	cases := []filter.Criteria{
		filter.New().WithCategories(dataset.FieldDepartment, "Sales", "Human Resources"),
		filter.New().WithCategories(dataset.FieldGender, "Female").WithRange(dataset.FieldAge, 25, 45),
		filter.New().WithCategories(dataset.FieldDepartment, "Research & Development").
			WithCategories(dataset.FieldGender, "Male", "Female").
			WithRange(dataset.FieldAge, 30, 30),
		filter.New().WithRange(dataset.FieldAge, 0, 1000),
	}

	for _, c := range cases {
		first := filter.Apply(tbl, c)
		second := filter.Apply(tbl, c)
		assert.Equal(t, first.Rows(), second.Rows(), "apply must be deterministic")
		assert.LessOrEqual(t, first.Len(), tbl.Len())

		prev := -1
		for i := 0; i < first.Len(); i++ {
			rec := first.Record(i)
			assert.Greater(t, rec.Row(), prev, "rows must keep input order")
			prev = rec.Row()

			for field, allowed := range c.Categories {
				assert.Contains(t, allowed, rec.Categorical(field))
			}
			for field, r := range c.Ranges {
				assert.True(t, r.Contains(rec.Numeric(field)))
			}
		}
	}
}

func TestCriteria_WithCopies(t *testing.T) {
	base := filter.New().WithCategories(dataset.FieldGender, "Male")
	derived := base.WithRange(dataset.FieldAge, 20, 30)

	assert.Len(t, base.Ranges, 0)
	assert.Len(t, derived.Ranges, 1)
	assert.Len(t, derived.Categories, 1)
}

func TestCriteria_Validate(t *testing.T) {
	schema := dataset.EmployeeSchema

	require.NoError(t, filter.New().
		WithCategories(dataset.FieldDepartment, "Sales").
		WithRange(dataset.FieldAge, 20, 30).
		Validate(schema))

	err := filter.New().WithCategories("Shoe Size", "9").Validate(schema)
	assert.True(t, errors.Is(err, core.ErrUnknownField))

	err = filter.New().WithCategories(dataset.FieldAge, "30").Validate(schema)
	assert.True(t, errors.Is(err, core.ErrKindMismatch))

	err = filter.New().WithRange(dataset.FieldGender, 0, 1).Validate(schema)
	assert.True(t, errors.Is(err, core.ErrKindMismatch))

	// Inverted ranges are legal: they simply match nothing
	assert.NoError(t, filter.New().WithRange(dataset.FieldAge, 50, 20).Validate(schema))
}

func TestCriteria_Fingerprint(t *testing.T) {
	a := filter.New().WithCategories(dataset.FieldDepartment, "Sales", "HR").WithRange(dataset.FieldAge, 18, 60)
	b := filter.New().WithRange(dataset.FieldAge, 18, 60).WithCategories(dataset.FieldDepartment, "HR", "Sales", "HR")
	c := filter.New().WithCategories(dataset.FieldDepartment, "Sales").WithRange(dataset.FieldAge, 18, 60)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, filter.New().Fingerprint(), filter.New().WithCategories(dataset.FieldDepartment).Fingerprint())
}
