package parser

import (
	"strconv"
	"strings"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// Options configures how cell text is turned into values.
type Options struct {
	// KeepText keeps every cell as a string instead of parsing numbers.
	KeepText bool
}

// buildSheet turns a grid of cell text into a sheet.
// The first non-empty row is the header. Columns with an empty header are
// ignored. Line numbers are 1-based positions in the grid.
func buildSheet(name string, rows [][]string, opts Options) models.Sheet {
	sheet := models.Sheet{Name: name}

	header, last := findDataBounds(rows)
	if header < 0 {
		return sheet
	}

	type column struct {
		idx  int
		name string
	}
	var columns []column
	for colIdx, cell := range rows[header] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		columns = append(columns, column{idx: colIdx, name: cell})
		sheet.Columns = append(sheet.Columns, cell)
	}

	for rowIdx := header + 1; rowIdx <= last; rowIdx++ {
		raw := rows[rowIdx]
		row := models.Row{Line: rowIdx + 1}
		for _, col := range columns {
			var value interface{}
			if col.idx < len(raw) && !isEmptyCell(raw[col.idx]) {
				value = convertValue(raw[col.idx], opts)
			}
			row.Cells = append(row.Cells, models.Cell{Column: col.name, Value: value})
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// findDataBounds returns the first and last row indices holding a
// non-empty cell, or -1, -1 for an empty grid.
func findDataBounds(rows [][]string) (first, last int) {
	first, last = -1, -1
	for rowIdx, row := range rows {
		for _, cell := range row {
			if !isEmptyCell(cell) {
				if first < 0 {
					first = rowIdx
				}
				last = rowIdx
				break
			}
		}
	}
	return
}

// isEmptyCell reports whether a cell holds nothing but whitespace.
func isEmptyCell(s string) bool {
	return strings.TrimSpace(s) == ""
}

func convertValue(s string, opts Options) interface{} {
	if opts.KeepText {
		return s
	}
	return parseValue(s)
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
// Text with leading zeros stays text so identifiers like "007" survive.
func parseValue(s string) interface{} {
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "xXpPnN_") {
		return f
	}
	return s
}
