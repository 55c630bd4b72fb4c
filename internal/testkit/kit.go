package testkit

import (
	"testing"

	"hrpulse/domain/dataset"
	"hrpulse/internal/synthetic"
)

// LooseSchema is the employee schema with nothing required, so fixtures can
// carry only the columns a test exercises.
func LooseSchema() dataset.Schema {
	out := make(dataset.Schema, len(dataset.EmployeeSchema))
	for i, col := range dataset.EmployeeSchema {
		col.Required = false
		out[i] = col
	}
	return out
}

// Table builds a table from header and row literals
func Table(tb testing.TB, headers []string, rows ...[]string) *dataset.Table {
	tb.Helper()
	t, err := dataset.NewTable(&dataset.RawTable{Source: tb.Name(), Headers: headers, Rows: rows}, LooseSchema())
	if err != nil {
		tb.Fatalf("testkit: build table: %v", err)
	}
	return t
}

// ScenarioTable is the three-record example table:
// {A,30,Yes}, {A,40,No}, {B,25,Yes} over Department, Age, Attrition.
func ScenarioTable(tb testing.TB) *dataset.Table {
	tb.Helper()
	return Table(tb,
		[]string{"Department", "Age", "Attrition"},
		[]string{"A", "30", "Yes"},
		[]string{"A", "40", "No"},
		[]string{"B", "25", "Yes"},
	)
}

// Employees generates a deterministic full-schema table
func Employees(tb testing.TB, rows int, seed int64) *dataset.Table {
	tb.Helper()
	cfg := synthetic.DefaultConfig()
	cfg.Rows = rows
	cfg.Seed = seed
	raw, err := synthetic.Generate(cfg)
	if err != nil {
		tb.Fatalf("testkit: generate: %v", err)
	}
	t, err := dataset.NewTable(raw, dataset.EmployeeSchema)
	if err != nil {
		tb.Fatalf("testkit: build employees: %v", err)
	}
	return t
}
