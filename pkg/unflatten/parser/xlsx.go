package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// ReadXLSX reads every sheet of an xlsx workbook, in workbook order.
func ReadXLSX(path string, opts Options) (models.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return models.Workbook{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Workbook{}, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer f.Close()

	wb := models.Workbook{BookName: filepath.Base(path)}
	for _, sheetName := range f.GetSheetList() {
		sheet, err := readXLSXSheet(f, sheetName, opts)
		if err != nil {
			return models.Workbook{}, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func readXLSXSheet(f *excelize.File, sheetName string, opts Options) (models.Sheet, error) {
	// Raw values avoid number formats turning 0.5 into "50%".
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Sheet{}, NewReadError(sheetName, err)
	}
	return buildSheet(sheetName, rows, opts), nil
}
