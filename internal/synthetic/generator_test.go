package synthetic

import (
	"path/filepath"
	"testing"

	"hrpulse/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_MatchesEmployeeSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 200

	raw, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, raw.Rows, 200)

	tbl, err := dataset.NewTable(raw, dataset.EmployeeSchema)
	require.NoError(t, err)
	assert.Equal(t, len(dataset.EmployeeSchema), len(tbl.Schema()))

	for i := 0; i < tbl.Len(); i++ {
		rec := tbl.Record(i)
		assert.GreaterOrEqual(t, rec.Numeric(dataset.FieldAge), 18.0)
		assert.LessOrEqual(t, rec.Numeric(dataset.FieldYearsAtCompany), rec.Numeric(dataset.FieldTotalWorkingYears))
		assert.Contains(t, []string{"Yes", "No"}, rec.Categorical(dataset.FieldAttrition))
		assert.Equal(t, float64(i+1), rec.Numeric(dataset.FieldEmployeeNumber))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 50

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)

	cfg.Seed = 7
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestGenerate_RejectsBadConfig(t *testing.T) {
	_, err := Generate(Config{Rows: 0})
	assert.Error(t, err)
	_, err = Generate(Config{Rows: 10, BaseAttrition: 2})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows = 5
	raw, err := Generate(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "EA.csv")
	require.NoError(t, WriteCSV(path, raw))
	assert.FileExists(t, path)
}
