// Package table holds the in-memory tabular dataset processed by a batch
// and its CSV and XLSX encodings.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one record. Cells are string, float64, json.Number or nil.
type Row []any

// Table is an ordered sequence of rows with named columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table, padding or truncating every row to the column count.
func New(columns []string, rows []Row) *Table {
	t := &Table{Columns: columns, Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

func fit(r Row, n int) Row {
	if len(r) == n {
		return r
	}
	out := make(Row, n)
	copy(out, r)
	return out
}

// Normalize pads or truncates every row to the column count.
func (t *Table) Normalize() {
	for i, r := range t.Rows {
		t.Rows[i] = fit(r, len(t.Columns))
	}
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MissingColumns lists the names absent from the table, in argument order.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			missing = append(missing, n)
		}
	}
	return missing
}

// EnsureColumn returns the index of name, appending an empty column when absent.
func (t *Table) EnsureColumn(name string) int {
	if i := t.ColumnIndex(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], nil)
	}
	return len(t.Columns) - 1
}

// Set writes v into row i, column col.
func (t *Table) Set(i, col int, v any) {
	t.Rows[i][col] = v
}

// Float reads a numeric cell. Strings may use either '.' or ',' as decimal separator.
func (t *Table) Float(i, col int) (float64, error) {
	return ParseFloat(t.Rows[i][col])
}

// ParseFloat converts a cell value to float64.
func ParseFloat(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		f, err = x.Float64()
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", "."))
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		f, err = strconv.ParseFloat(s, 64)
	case nil:
		return 0, fmt.Errorf("empty value")
	default:
		return 0, fmt.Errorf("unsupported cell type %T", v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

// FormatCell renders a cell for text formats. nil renders as the empty string.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
