package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

const csvExt = ".csv"

var utf8BOM = []byte("\xef\xbb\xbf")

// ReadCSVDir reads a directory holding one CSV file per sheet. The sheet
// name is the file name without its extension; sheets are ordered by name.
func ReadCSVDir(dir string, opts Options) (models.Workbook, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return models.Workbook{}, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
	}
	if err != nil {
		return models.Workbook{}, err
	}
	if !info.IsDir() {
		return models.Workbook{}, fmt.Errorf("%w: %s is not a directory", ErrInvalidFormat, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.Workbook{}, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), csvExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	wb := models.Workbook{BookName: filepath.Base(filepath.Clean(dir))}
	for _, name := range names {
		sheetName := strings.TrimSuffix(name, filepath.Ext(name))
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return models.Workbook{}, NewReadError(sheetName, err)
		}
		rows, err := parseCSV(data)
		if err != nil {
			return models.Workbook{}, NewReadError(sheetName, fmt.Errorf("%w: %v", ErrInvalidFormat, err))
		}
		wb.Sheets = append(wb.Sheets, buildSheet(sheetName, rows, opts))
	}
	return wb, nil
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}
