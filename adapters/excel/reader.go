package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"hrpulse/domain/dataset"
	"hrpulse/internal"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader reads the employee table from a CSV or Excel file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type is picked from the extension
func NewDataReader(cfg Config, logger *internal.Logger) *DataReader {
	if cfg.Sheet == "" {
		cfg.Sheet = DefaultConfig().Sheet
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		filePath: cfg.FilePath,
		fileType: fileType(cfg.FilePath),
		sheet:    cfg.Sheet,
		logger:   logger.With("DataReader"),
	}
}

// Name returns the file path
func (r *DataReader) Name() string {
	return r.filePath
}

// ReadTable reads the header row and all data rows as raw strings
func (r *DataReader) ReadTable(ctx context.Context) (*dataset.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	info, err := os.Stat(r.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrSourceMissing,
			fmt.Sprintf("%s file not found", strings.ToUpper(r.fileType)), nil)
	}
	if err != nil {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrSourceMissing, "", err)
	}
	if info.IsDir() {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrSourceMissing, "path is a directory", nil)
	}

	var rows [][]string
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	return r.toRaw(rows), nil
}

// readExcel reads every row of the configured sheet
func (r *DataReader) readExcel() ([][]string, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrMalformed, "open workbook", err)
	}
	defer f.Close()
	r.logger.Debug("Excel file opened in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)

	readStart := time.Now()
	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrMalformed,
			fmt.Sprintf("read sheet %q", r.sheet), err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.sheet,
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	// GetRows drops trailing empty cells; restore the header width so only
	// rows that really have extra cells are reported as ragged.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			if n := len(rows[i]); n < width {
				padded := make([]string, width)
				copy(padded, rows[i])
				rows[i] = padded
			}
		}
	}
	return rows, nil
}

// readCSV reads the whole file; ragged rows are passed through for the table
// builder to report with their line number
func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, dataset.NewLoadError(r.filePath, dataset.ErrSourceMissing, "", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dataset.NewLoadError(r.filePath, dataset.ErrMalformed, "", err)
		}
		rows = append(rows, record)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// toRaw splits the header from the data rows
func (r *DataReader) toRaw(rows [][]string) *dataset.RawTable {
	raw := &dataset.RawTable{Source: r.filePath}
	if len(rows) == 0 {
		return raw
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	raw.Headers = headers
	raw.Rows = rows[1:]

	r.logger.Info("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(raw.Headers), len(raw.Rows))
	return raw
}
