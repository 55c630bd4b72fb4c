package ports

import (
	"context"

	"hrpulse/domain/dataset"
)

// TableSource reads the raw employee grid from wherever it lives. Callers
// validate and type the grid with dataset.NewTable.
type TableSource interface {
	// Name identifies the source in logs and load errors
	Name() string
	// ReadTable returns the header row and every data row. A source that does
	// not exist fails with a *dataset.LoadError of kind ErrSourceMissing.
	ReadTable(ctx context.Context) (*dataset.RawTable, error)
}
