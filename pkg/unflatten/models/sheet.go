// Package models defines the data structures shared by the readers, the
// unflatten engine and the writers.
package models

// Cell is one column value of a row.
type Cell struct {
	// Column is the header name the value was read under.
	Column string
	// Value is a string, int64, float64, bool, or nil when the cell is empty.
	Value interface{}
}

// Row represents a single data row of a sheet.
type Row struct {
	// Line is the 1-based line number in the source sheet (the header is line 1).
	// Zero means unknown; Sheet.LineOf derives one from the row position.
	Line int
	// Cells holds the row values in column order.
	Cells []Cell
}

// Get returns the value stored under column.
func (r Row) Get(column string) (interface{}, bool) {
	for _, c := range r.Cells {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// IsBlank reports whether every cell of the row is absent.
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if !IsAbsent(c.Value) {
			return false
		}
	}
	return true
}

// Sheet represents one named table of rows.
type Sheet struct {
	// Name is the sheet name.
	Name string
	// Columns lists the header names in order.
	Columns []string
	// Rows contains the data rows in sheet order.
	Rows []Row
}

// NewSheet builds a sheet from a header and positional row values.
// Values beyond the header width are ignored.
func NewSheet(name string, columns []string, values ...[]interface{}) Sheet {
	sheet := Sheet{Name: name, Columns: columns}
	for i, vals := range values {
		row := Row{Line: i + 2}
		for j, col := range columns {
			var v interface{}
			if j < len(vals) {
				v = vals[j]
			}
			row.Cells = append(row.Cells, Cell{Column: col, Value: v})
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// LineOf returns the line number of the i-th row.
func (s Sheet) LineOf(i int) int {
	if line := s.Rows[i].Line; line > 0 {
		return line
	}
	return i + 2
}

// HasColumn reports whether the sheet header contains column.
func (s Sheet) HasColumn(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// IsAbsent reports whether v is the empty-cell marker: nil or "".
func IsAbsent(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
