package config

import (
	"strconv"

	"hrpulse/internal"
	"hrpulse/internal/errors"

	"github.com/caarlos0/env/v11"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Server    ServerConfig
	Logging   LoggingConfig
	Dashboard DashboardConfig
	Metrics   MetricsConfig
}

// DataConfig locates the employee table. DATABASE_URL, when set, takes
// precedence over the file.
type DataConfig struct {
	File        string `env:"DATA_FILE" envDefault:"EA.csv"`
	Sheet       string `env:"DATA_SHEET" envDefault:"Sheet1"`
	DatabaseURL string `env:"DATABASE_URL"`
	Table       string `env:"DATA_TABLE" envDefault:"employees"`
}

// UsesDatabase reports whether the table is read from Postgres
func (d DataConfig) UsesDatabase() bool {
	return d.DatabaseURL != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"INFO"`
	JSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

// DashboardConfig holds the chart battery settings
type DashboardConfig struct {
	// File overrides the built-in definition when set
	File    string `env:"DASHBOARD_FILE"`
	Workers int    `env:"BUILDER_WORKERS" envDefault:"1"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse environment")
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LogLevel resolves the configured level, INFO when unrecognized
func (c *Config) LogLevel() internal.LogLevel {
	level, _ := internal.ParseLogLevel(c.Logging.Level)
	return level
}

func validateConfig(config *Config) error {
	if config.Data.File == "" && config.Data.DatabaseURL == "" {
		return errors.ConfigInvalid("DATA_FILE or DATABASE_URL is required")
	}
	if config.Data.UsesDatabase() && config.Data.Table == "" {
		return errors.ConfigInvalid("DATA_TABLE is required with DATABASE_URL")
	}
	port, err := strconv.Atoi(config.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.ConfigInvalid("PORT must be a number between 1 and 65535")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if _, ok := internal.ParseLogLevel(config.Logging.Level); !ok {
		return errors.ConfigInvalid("LOG_LEVEL must be one of ERROR, WARN, INFO, DEBUG, TRACE")
	}
	if config.Dashboard.Workers < 1 {
		return errors.ConfigInvalid("BUILDER_WORKERS must be at least 1")
	}
	return nil
}
