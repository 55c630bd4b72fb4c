package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"hrpulse/domain/core"
	"hrpulse/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ReproducesTwelveCharts(t *testing.T) {
	def := Default()
	require.NoError(t, def.Validate(dataset.EmployeeSchema))

	assert.Equal(t, "HR Attrition Dashboard", def.Title)
	require.Len(t, def.Tabs, 4)
	assert.Equal(t, []string{"Demographics", "Attrition Insights", "Work & Pay", "Correlations"},
		[]string{def.Tabs[0].Name, def.Tabs[1].Name, def.Tabs[2].Name, def.Tabs[3].Name})
	assert.Len(t, def.Charts(), 12)

	scatter, ok := def.Chart("age_vs_income")
	require.True(t, ok)
	assert.Equal(t, KindScatter, scatter.Kind)
	assert.True(t, scatter.Trend)

	cond, ok := def.Chart("attrition_by_department")
	require.True(t, ok)
	require.NotNil(t, cond.Where)
	assert.Equal(t, Predicate{Field: dataset.FieldAttrition, Equals: "Yes"}, *cond.Where)

	hist, _ := def.Chart("age_distribution")
	assert.Equal(t, 20, hist.Bins)

	_, ok = def.Chart("missing")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	def, err := Load("")
	require.NoError(t, err)
	assert.Len(t, def.Charts(), 12)

	path := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Small
tabs:
  - name: Only
    charts:
      - {id: g, title: Gender, kind: pie, field: Gender}
`), 0o644))
	def, err = Load(path)
	require.NoError(t, err)
	require.NoError(t, def.Validate(dataset.EmployeeSchema))
	assert.Equal(t, "Small", def.Title)
	assert.Len(t, def.Charts(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("tabs: [unterminated"))
	assert.ErrorIs(t, err, core.ErrInvalidChart)
}

func TestValidate(t *testing.T) {
	wrap := func(charts ...Chart) *Definition {
		return &Definition{Tabs: []Tab{{Name: "t", Charts: charts}}}
	}

	tests := []struct {
		name string
		def  *Definition
		want error
	}{
		{"no tabs", &Definition{}, core.ErrInvalidChart},
		{"missing id", wrap(Chart{Kind: KindPie, Field: "Gender"}), core.ErrInvalidChart},
		{"duplicate id", wrap(
			Chart{ID: "a", Kind: KindPie, Field: "Gender"},
			Chart{ID: "a", Kind: KindPie, Field: "Gender"},
		), core.ErrInvalidChart},
		{"unknown kind", wrap(Chart{ID: "a", Kind: "radar"}), core.ErrInvalidChart},
		{"unknown field", wrap(Chart{ID: "a", Kind: KindPie, Field: "Salary"}), core.ErrUnknownField},
		{"histogram of categorical", wrap(Chart{ID: "a", Kind: KindHistogram, Field: "Gender"}), core.ErrKindMismatch},
		{"missing role", wrap(Chart{ID: "a", Kind: KindScatter, X: "Age"}), core.ErrInvalidChart},
		{"conditional without where", wrap(Chart{ID: "a", Kind: KindConditionalCount, Field: "Department"}), core.ErrInvalidChart},
		{"numeric where", wrap(Chart{ID: "a", Kind: KindConditionalCount, Field: "Department",
			Where: &Predicate{Field: "Age", Equals: "30"}}), core.ErrKindMismatch},
		{"negative bins", wrap(Chart{ID: "a", Kind: KindHistogram, Field: "Age", Bins: -1}), core.ErrInvalidChart},
		{"unknown exclude", wrap(Chart{ID: "a", Kind: KindHeatmap, Exclude: []dataset.Field{"Badge"}}), core.ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate(dataset.EmployeeSchema)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, core.IsValidationError(err))
		})
	}
}

func TestValidate_ScatterColorOptional(t *testing.T) {
	def := &Definition{Tabs: []Tab{{Name: "t", Charts: []Chart{
		{ID: "s", Kind: KindScatter, X: "Age", Y: "MonthlyIncome"},
	}}}}
	assert.NoError(t, def.Validate(dataset.EmployeeSchema))
}
