package excel

import (
	"path/filepath"
	"strings"
)

// Config locates the employee file
type Config struct {
	FilePath string `json:"file_path"`
	// Sheet is the worksheet read from XLSX workbooks; ignored for CSV
	Sheet string `json:"sheet"`
}

// DefaultConfig returns the stock dataset location
func DefaultConfig() Config {
	return Config{
		FilePath: "EA.csv",
		Sheet:    "Sheet1",
	}
}

// fileType is "csv" for .csv files and "xlsx" for everything else
func fileType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}
