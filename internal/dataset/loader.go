package dataset

import (
	"context"
	"sync"
	"time"

	domainDataset "hrpulse/domain/dataset"
	"hrpulse/internal"
	"hrpulse/ports"
)

// Loader reads and validates the employee table once per process. Both the
// table and a load failure are memoized: later calls never touch the source.
type Loader struct {
	source ports.TableSource
	schema domainDataset.Schema
	logger *internal.Logger

	once  sync.Once
	table *domainDataset.Table
	err   error
}

// NewLoader creates a loader over source, validating against schema
func NewLoader(source ports.TableSource, schema domainDataset.Schema, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{source: source, schema: schema, logger: logger.With("Loader")}
}

// Source names the underlying source
func (l *Loader) Source() string {
	return l.source.Name()
}

// Load returns the memoized table, reading the source on the first call.
// Failures are *dataset.LoadError.
func (l *Loader) Load(ctx context.Context) (*domainDataset.Table, error) {
	l.once.Do(func() {
		l.table, l.err = l.load(ctx)
	})
	return l.table, l.err
}

func (l *Loader) load(ctx context.Context) (*domainDataset.Table, error) {
	start := time.Now()
	raw, err := l.source.ReadTable(ctx)
	if err != nil {
		if !domainDataset.IsLoadError(err) {
			err = domainDataset.NewLoadError(l.source.Name(), domainDataset.ErrSourceMissing, "", err)
		}
		l.logger.Error("Load failed: %v", err)
		return nil, err
	}

	for _, h := range raw.Headers {
		if _, ok := l.schema.Match(h); !ok {
			l.logger.Debug("Ignoring unknown column %q", h)
		}
	}

	table, err := domainDataset.NewTable(raw, l.schema)
	if err != nil {
		l.logger.Error("Load failed: %v", err)
		return nil, err
	}
	l.logger.Info("Loaded %d records (%d columns) from %s in %.2fms",
		table.Len(), len(table.Schema()), l.source.Name(), float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}
