// Package parser reads spreadsheet files into workbooks for the unflatten
// engine.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// Format names an input layout.
type Format string

const (
	// FormatAuto picks a reader from the path: directories are read as CSV,
	// everything else as xlsx.
	FormatAuto Format = ""
	// FormatXLSX reads an Excel workbook.
	FormatXLSX Format = "xlsx"
	// FormatCSV reads a directory of CSV files.
	FormatCSV Format = "csv"
)

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	case "", "auto":
		return FormatAuto, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q (must be auto, xlsx, or csv)", ErrUnknownFormat, s)
}

// DetectFormat resolves FormatAuto for path.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return FormatAuto, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return FormatAuto, err
	}
	if info.IsDir() {
		return FormatCSV, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	}
	return FormatAuto, fmt.Errorf("%w: cannot detect format of %s", ErrUnknownFormat, path)
}

// Read reads path with the reader for format.
func Read(path string, format Format, opts Options) (models.Workbook, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return models.Workbook{}, err
		}
		format = detected
	}

	switch format {
	case FormatXLSX:
		return ReadXLSX(path, opts)
	case FormatCSV:
		return ReadCSVDir(path, opts)
	}
	return models.Workbook{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
