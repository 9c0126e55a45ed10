package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "main")
	f.SetCellValue("main", "A1", "ocid")
	f.SetCellValue("main", "B1", "id")
	f.SetCellValue("main", "C1", "title")
	f.SetCellValue("main", "A2", "ocds-1")
	f.SetCellValue("main", "B2", 100)
	f.SetCellValue("main", "C2", "Tender")
	f.SetCellValue("main", "B4", 200.5)

	if _, err := f.NewSheet("items"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	f.SetCellValue("items", "A1", "ocid")
	f.SetCellValue("items", "B1", "items/0/id")
	f.SetCellValue("items", "A2", "ocds-1")
	f.SetCellValue("items", "B2", "007")

	wb, err := ReadXLSX(saveWorkbook(t, f), Options{})
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}

	if wb.BookName != "test.xlsx" {
		t.Errorf("Expected book name test.xlsx, got %q", wb.BookName)
	}
	if len(wb.Sheets) != 2 || wb.Sheets[0].Name != "main" || wb.Sheets[1].Name != "items" {
		t.Fatalf("Expected sheets [main items], got %v", wb.Names())
	}

	mainSheet := wb.Sheets[0]
	if len(mainSheet.Columns) != 3 || mainSheet.Columns[2] != "title" {
		t.Errorf("Unexpected columns: %v", mainSheet.Columns)
	}
	if len(mainSheet.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(mainSheet.Rows))
	}

	if mainSheet.Rows[0].Line != 2 {
		t.Errorf("Expected line 2, got %d", mainSheet.Rows[0].Line)
	}
	if v, _ := mainSheet.Rows[0].Get("id"); v != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", v, v)
	}
	if v, _ := mainSheet.Rows[0].Get("title"); v != "Tender" {
		t.Errorf("Expected 'Tender', got %v", v)
	}
	if !mainSheet.Rows[1].IsBlank() {
		t.Errorf("Expected blank row on line 3, got %v", mainSheet.Rows[1].Cells)
	}
	if v, _ := mainSheet.Rows[2].Get("id"); v != 200.5 {
		t.Errorf("Expected 200.5, got %v", v)
	}
	if mainSheet.Rows[2].Line != 4 {
		t.Errorf("Expected line 4, got %d", mainSheet.Rows[2].Line)
	}

	if v, _ := wb.Sheets[1].Rows[0].Get("items/0/id"); v != "007" {
		t.Errorf("Expected '007' to stay text, got %v (type: %T)", v, v)
	}
}

func TestReadXLSX_KeepText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "id")
	f.SetCellValue("Sheet1", "A2", 42)

	wb, err := ReadXLSX(saveWorkbook(t, f), Options{KeepText: true})
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	if v, _ := wb.Sheets[0].Rows[0].Get("id"); v != "42" {
		t.Errorf("Expected \"42\", got %v (type: %T)", v, v)
	}
}

func TestReadXLSX_HeaderBelowBlankRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "B3", "id")
	f.SetCellValue("Sheet1", "B4", "x")

	wb, err := ReadXLSX(saveWorkbook(t, f), Options{})
	if err != nil {
		t.Fatalf("ReadXLSX failed: %v", err)
	}
	sheet := wb.Sheets[0]
	if len(sheet.Columns) != 1 || sheet.Columns[0] != "id" {
		t.Fatalf("Unexpected columns: %v", sheet.Columns)
	}
	if len(sheet.Rows) != 1 || sheet.Rows[0].Line != 4 {
		t.Fatalf("Expected one row on line 4, got %+v", sheet.Rows)
	}
}

func TestReadXLSX_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadXLSX(filepath.Join(dir, "missing.xlsx"), Options{})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadXLSX(bad, Options{})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"0", int64(0)},
		{"0.5", 0.5},
		{"007", "007"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestFindDataBounds(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]string
		first, last int
	}{
		{name: "empty", rows: nil, first: -1, last: -1},
		{name: "whitespace only", rows: [][]string{{" "}, {""}}, first: -1, last: -1},
		{name: "trailing blank rows", rows: [][]string{{"a"}, {"b"}, {""}, {}}, first: 0, last: 1},
		{name: "leading blank rows", rows: [][]string{{}, {"", "a"}, {"b"}}, first: 1, last: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := findDataBounds(tt.rows)
			if first != tt.first || last != tt.last {
				t.Errorf("findDataBounds() = %d, %d, want %d, %d", first, last, tt.first, tt.last)
			}
		})
	}
}
