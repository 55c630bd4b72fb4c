package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hrpulse/domain/filter"
	"hrpulse/internal"
	"hrpulse/internal/config"
	"hrpulse/internal/errors"
	"hrpulse/internal/synthetic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(path string) *config.Config {
	return &config.Config{
		Data:      config.DataConfig{File: path, Sheet: "Sheet1", Table: "employees"},
		Dashboard: config.DashboardConfig{Workers: 2},
	}
}

func writeEmployees(t *testing.T, rows int) string {
	t.Helper()
	cfg := synthetic.DefaultConfig()
	cfg.Rows = rows
	raw, err := synthetic.Generate(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "EA.csv")
	require.NoError(t, synthetic.WriteCSV(path, raw))
	return path
}

func TestNew_FileSource(t *testing.T) {
	path := writeEmployees(t, 80)
	c, err := New(context.Background(), fileConfig(path), internal.Discard())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Equal(t, path, c.Source.Name())
	assert.Len(t, c.Definition.Charts(), 12)
	require.NoError(t, c.Warm(context.Background()))

	pass, err := c.Dashboard.Compute(context.Background(), filter.New())
	require.NoError(t, err)
	assert.Equal(t, 80, pass.TotalRows)
}

func TestWarm_MissingFile(t *testing.T) {
	c, err := New(context.Background(), fileConfig(filepath.Join(t.TempDir(), "absent.csv")), internal.Discard())
	require.NoError(t, err)

	err = c.Warm(context.Background())
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestNew_BadDashboardFile(t *testing.T) {
	cfg := fileConfig(writeEmployees(t, 10))
	cfg.Dashboard.File = filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(cfg.Dashboard.File, []byte(`
tabs:
  - name: Broken
    charts:
      - {id: x, kind: histogram, field: Gender}
`), 0o644))

	_, err := New(context.Background(), cfg, internal.Discard())
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil, nil)
	assert.Error(t, err)
}
