package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is used when no sheet name is given.
const DefaultSheet = "Sheet1"

// ReadXLSX reads a sheet whose first row is the header. An empty sheet name
// selects the first sheet of the workbook.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("read xlsx %q: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	// Raw values: display formats such as "0.00" would round coordinates.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read xlsx %q sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read xlsx %q sheet %q: missing header", path, sheet)
	}

	data := make([]Row, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		row := make(Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		data = append(data, row)
	}

	return New(rows[0], data), nil
}

// WriteXLSX writes the table to a new workbook using the stream writer.
func WriteXLSX(path, sheet string, t *Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("write xlsx: new sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("write xlsx: stream writer: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write xlsx: header: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("write xlsx: row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = v
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write xlsx: row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("write xlsx: flush: %w", err)
	}

	f.SetActiveSheet(index)
	if sheet != DefaultSheet {
		f.DeleteSheet(DefaultSheet)
	}

	return f.SaveAs(path)
}
