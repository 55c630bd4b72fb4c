package migration

import (
	"context"
	"testing"

	"hrpulse/domain/dataset"
	"hrpulse/internal"
	"hrpulse/internal/errors"
	"hrpulse/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner(t *testing.T) {
	r, err := NewRunner("employees", internal.Discard())
	require.NoError(t, err)
	assert.Equal(t, `"public"."employees"`, r.relation())
	assert.Equal(t, "1.0.0", r.Version())

	r, err = NewRunner("hr.staff", internal.Discard())
	require.NoError(t, err)
	assert.Equal(t, `"hr"."staff"`, r.relation())

	for _, bad := range []string{"", "1abc", "a;drop", "a.b.c"} {
		_, err := NewRunner(bad, internal.Discard())
		assert.Equal(t, errors.CodeValidationError, errors.GetCode(err), bad)
	}
}

func TestCreateTableSQL(t *testing.T) {
	r, err := NewRunner("employees", internal.Discard())
	require.NoError(t, err)

	ddl := r.CreateTableSQL()
	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "public"."employees"`)
	assert.Contains(t, ddl, `"EmployeeNumber" DOUBLE PRECISION PRIMARY KEY`)
	assert.Contains(t, ddl, `"Age" DOUBLE PRECISION NOT NULL`)
	assert.Contains(t, ddl, `"Attrition" TEXT NOT NULL`)
}

func TestRowArgs(t *testing.T) {
	table := testkit.ScenarioTable(t)
	assert.Equal(t, []interface{}{30.0, "Yes", "A"}, RowArgs(table, 0))
	assert.Len(t, table.Schema(), 3)
}

func TestRun_RejectsInvalidTableBeforeTouchingDatabase(t *testing.T) {
	r, err := NewRunner("employees", internal.Discard())
	require.NoError(t, err)

	raw := &dataset.RawTable{Headers: []string{"Age"}, Rows: [][]string{{"30"}}}
	err = r.Run(context.Background(), nil, raw)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.ErrorIs(t, err, dataset.ErrSchemaMismatch)
}
