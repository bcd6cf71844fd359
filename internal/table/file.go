package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadFile loads a CSV or XLSX file, chosen by extension.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, "")
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read table: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("read table: unsupported file type %q", filepath.Ext(path))
	}
}

// WriteFile stores a table as CSV or XLSX, chosen by extension.
func WriteFile(path string, t *Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, "", t)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("write table: %w", err)
		}
		if err := WriteCSV(f, t); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("write table: unsupported file type %q", filepath.Ext(path))
	}
}
