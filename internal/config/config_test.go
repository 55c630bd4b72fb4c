package config

import (
	"testing"

	"hrpulse/internal"
	"hrpulse/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_FILE", "DATA_SHEET", "DATABASE_URL", "DATA_TABLE", "PORT",
		"GIN_MODE", "LOG_LEVEL", "LOG_JSON", "DASHBOARD_FILE", "BUILDER_WORKERS", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EA.csv", cfg.Data.File)
	assert.Equal(t, "Sheet1", cfg.Data.Sheet)
	assert.False(t, cfg.Data.UsesDatabase())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1, cfg.Dashboard.Workers)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, internal.LogLevelInfo, cfg.LogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_FILE", "data/EA.xlsx")
	t.Setenv("DATABASE_URL", "postgres://localhost/hr")
	t.Setenv("DATA_TABLE", "hr.employees")
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("BUILDER_WORKERS", "4")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Data.UsesDatabase())
	assert.Equal(t, "hr.employees", cfg.Data.Table)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, internal.LogLevelDebug, cfg.LogLevel())
	assert.Equal(t, 4, cfg.Dashboard.Workers)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port not numeric", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"gin mode", "GIN_MODE", "verbose"},
		{"log level", "LOG_LEVEL", "LOUD"},
		{"workers", "BUILDER_WORKERS", "0"},
		{"workers not numeric", "BUILDER_WORKERS", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
