package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hrpulse/domain/dataset"
	"hrpulse/internal"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// undefinedTable is the SQLSTATE for a missing relation
const undefinedTable = "42P01"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// EmployeeSource reads the employee table from a Postgres relation
type EmployeeSource struct {
	db     *sqlx.DB
	table  string
	logger *internal.Logger
}

// Connect opens and pings a Postgres pool
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, dataset.NewLoadError("postgres", dataset.ErrSourceMissing, "connect", err)
	}
	return db, nil
}

// NewEmployeeSource creates a source over table, which may be schema qualified
func NewEmployeeSource(db *sqlx.DB, table string, logger *internal.Logger) (*EmployeeSource, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EmployeeSource{db: db, table: table, logger: logger.With("EmployeeSource")}, nil
}

// Name identifies the relation
func (s *EmployeeSource) Name() string {
	return "postgres:" + s.table
}

// ReadTable selects every row, ordered by the employee identifier when the
// relation has one
func (s *EmployeeSource) ReadTable(ctx context.Context) (*dataset.RawTable, error) {
	start := time.Now()
	relation := quoteTable(s.table)

	columns, err := s.columns(ctx, relation)
	if err != nil {
		return nil, s.loadError(err)
	}

	query := "SELECT * FROM " + relation
	if id, ok := orderColumn(columns); ok {
		query += " ORDER BY " + pq.QuoteIdentifier(id)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, s.loadError(err)
	}
	defer rows.Close()

	raw := &dataset.RawTable{Source: s.Name(), Headers: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, dataset.NewLoadError(s.Name(), dataset.ErrMalformed, "scan row", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		raw.Rows = append(raw.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.loadError(err)
	}

	s.logger.Info("Read %d rows (%d columns) in %.2fms",
		len(raw.Rows), len(columns), float64(time.Since(start).Nanoseconds())/1e6)
	return raw, nil
}

func (s *EmployeeSource) columns(ctx context.Context, relation string) ([]string, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+relation+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

func (s *EmployeeSource) loadError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return dataset.NewLoadError(s.Name(), dataset.ErrSourceMissing, "relation does not exist", err)
	}
	return dataset.NewLoadError(s.Name(), dataset.ErrSourceMissing, "query", err)
}

// quoteTable quotes each part of a possibly schema qualified name
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// orderColumn finds the identifier column among the relation's columns
func orderColumn(columns []string) (string, bool) {
	for _, c := range columns {
		if col, ok := dataset.EmployeeSchema.Match(c); ok && col.Field == dataset.IdentifierField {
			return c, true
		}
	}
	return "", false
}

// cellString renders a scanned value the way it would appear in the CSV export
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
