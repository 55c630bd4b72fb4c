package container

import (
	"context"
	"fmt"

	"hrpulse/adapters/excel"
	"hrpulse/adapters/postgres"
	"hrpulse/app"
	"hrpulse/domain/dashboard"
	domainDataset "hrpulse/domain/dataset"
	"hrpulse/internal"
	"hrpulse/internal/config"
	"hrpulse/internal/dataset"
	"hrpulse/internal/errors"
	"hrpulse/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds the application's dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil when reading from a file
	DB *sqlx.DB

	Source     ports.TableSource
	Loader     *dataset.Loader
	Definition *dashboard.Definition
	Dashboard  *app.DashboardService
}

// New wires the source chosen by the config, the memoized loader and the
// dashboard service. Nothing is read from the source yet.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initSource(ctx); err != nil {
		return nil, err
	}

	def, err := dashboard.Load(cfg.Dashboard.File)
	if err != nil {
		c.Close()
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	c.Definition = def

	c.Loader = dataset.NewLoader(c.Source, domainDataset.EmployeeSchema, logger)
	c.Dashboard, err = app.NewDashboardService(c.Loader, def, cfg.Dashboard.Workers, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initSource(ctx context.Context) error {
	if !c.Config.Data.UsesDatabase() {
		c.Source = excel.NewDataReader(excel.Config{
			FilePath: c.Config.Data.File,
			Sheet:    c.Config.Data.Sheet,
		}, c.Logger)
		return nil
	}

	db, err := postgres.Connect(ctx, c.Config.Data.DatabaseURL)
	if err != nil {
		return err
	}
	source, err := postgres.NewEmployeeSource(db, c.Config.Data.Table, c.Logger)
	if err != nil {
		db.Close()
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	c.DB = db
	c.Source = source
	return nil
}

// Warm performs the one load eagerly so startup fails fast on a bad source
func (c *Container) Warm(ctx context.Context) error {
	if _, err := c.Loader.Load(ctx); err != nil {
		return errors.LoadFailed(err)
	}
	return nil
}

// Close releases the database connection, if any
func (c *Container) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("Error closing database: %v", err)
		}
		c.DB = nil
	}
}
