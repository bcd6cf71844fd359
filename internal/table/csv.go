package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a table whose first record is the header. Cells stay strings.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: header: %w", err)
	}
	// Excel prefixes UTF-8 exports with a byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: record %d: %w", len(rows)+1, err)
		}
		row := make(Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		rows = append(rows, row)
	}

	return New(header, rows), nil
}

// WriteCSV writes the header followed by every row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv: header: %w", err)
	}

	rec := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range rec {
			rec[j] = ""
			if j < len(row) {
				rec[j] = FormatCell(row[j])
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
