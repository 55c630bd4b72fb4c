package migration

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"hrpulse/domain/dataset"
	"hrpulse/internal"
	"hrpulse/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Runner creates the employee relation and bulk loads a table into it
type Runner struct {
	version string
	schema  string
	table   string
	logger  *internal.Logger
}

// NewRunner creates a runner for table, which may be schema qualified
func NewRunner(table string, logger *internal.Logger) (*Runner, error) {
	if !identPattern.MatchString(table) {
		return nil, errors.ValidationError(fmt.Sprintf("invalid table name %q", table))
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	r := &Runner{version: "1.0.0", schema: "public", table: table, logger: logger.With("Migration")}
	if i := strings.IndexByte(table, '.'); i >= 0 {
		r.schema, r.table = table[:i], table[i+1:]
	}
	return r, nil
}

// Version returns the migration version
func (r *Runner) Version() string {
	return r.version
}

func (r *Runner) relation() string {
	return pq.QuoteIdentifier(r.schema) + "." + pq.QuoteIdentifier(r.table)
}

// CreateTableSQL declares one column per schema field with the source header
// as its name. Required fields are NOT NULL; the identifier is the key.
func (r *Runner) CreateTableSQL() string {
	cols := make([]string, 0, len(dataset.EmployeeSchema))
	for _, col := range dataset.EmployeeSchema {
		def := pq.QuoteIdentifier(string(col.Field)) + " " + sqlType(col.Kind)
		switch {
		case col.Field == dataset.IdentifierField:
			def += " PRIMARY KEY"
		case col.Required:
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", r.relation(), strings.Join(cols, ",\n  "))
}

func sqlType(kind dataset.Kind) string {
	if kind == dataset.KindNumeric {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

// Run validates raw against the employee schema, then replaces the
// relation's contents with it in one transaction
func (r *Runner) Run(ctx context.Context, db *sqlx.DB, raw *dataset.RawTable) error {
	table, err := dataset.NewTable(raw, dataset.EmployeeSchema)
	if err != nil {
		return errors.InvalidInput("source table is not a valid employee table", err)
	}

	start := time.Now()
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("begin migration", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.CreateTableSQL()); err != nil {
		return errors.DatabaseError("create employee table", err)
	}
	if _, err := tx.ExecContext(ctx, "TRUNCATE "+r.relation()); err != nil {
		return errors.DatabaseError("truncate employee table", err)
	}
	if err := r.copyRows(ctx, tx, table); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("commit migration", err)
	}

	r.logger.Info("Loaded %d employees into %s in %s", table.Len(), r.relation(), time.Since(start))
	return nil
}

func (r *Runner) copyRows(ctx context.Context, tx *sqlx.Tx, table *dataset.Table) error {
	columns := table.Schema()
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = string(col.Field)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyInSchema(r.schema, r.table, names...))
	if err != nil {
		return errors.DatabaseError("prepare copy", err)
	}
	defer stmt.Close()

	for i := 0; i < table.Len(); i++ {
		if _, err := stmt.ExecContext(ctx, RowArgs(table, i)...); err != nil {
			return errors.DatabaseError(fmt.Sprintf("copy row %d", i+1), err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return errors.DatabaseError("flush copy", err)
	}
	return nil
}

// RowArgs returns row i's values in the table's column order
func RowArgs(table *dataset.Table, i int) []interface{} {
	columns := table.Schema()
	args := make([]interface{}, len(columns))
	for j, col := range columns {
		if col.Kind == dataset.KindNumeric {
			args[j] = table.Numeric(col.Field, i)
		} else {
			args[j] = table.Categorical(col.Field, i)
		}
	}
	return args
}
