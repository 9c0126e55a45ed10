// Package unflatten rebuilds nested records from flat sheets whose column
// names encode field paths, joining sub-sheets to the main sheet by
// identifier columns.
package unflatten

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

const (
	// DefaultRootID is the root identifier column used when none is configured.
	DefaultRootID = "ocid"
	// DefaultIDName is the local identifier column.
	DefaultIDName = "id"
	// DefaultSeparator separates path segments in column names.
	DefaultSeparator = "/"
	// commentPrefix marks columns that carry notes rather than data.
	commentPrefix = "#"
)

// Config configures an unflatten run.
type Config struct {
	// MainSheetName names the sheet holding the top-level records.
	MainSheetName string
	// RootID names the root identifier column.
	// If nil, defaults to "ocid". An empty string disables root identifiers,
	// so records are identified by the local id alone.
	RootID *string
	// IDName names the local identifier column. Empty means "id".
	IDName string
	// Separator splits column names into path segments. Empty means "/".
	Separator string
	// SubSheets maps a sub-sheet name to the sheet it is nested under.
	// Sheets not listed are nested directly under the main sheet. Every
	// listed sheet must be in the workbook.
	SubSheets map[string]string
	// SkipColumns lists columns that never contribute fields.
	SkipColumns []string
}

// DefaultConfig returns a configuration with default identifiers for mainSheet.
func DefaultConfig(mainSheet string) Config {
	return Config{
		MainSheetName: mainSheet,
		IDName:        DefaultIDName,
		Separator:     DefaultSeparator,
	}
}

// WithRootID returns a copy of c using column as root identifier. An empty
// column disables root identifiers.
func (c Config) WithRootID(column string) Config {
	c.RootID = &column
	return c
}

// RootIDColumn returns the root identifier column, "" when disabled.
func (c Config) RootIDColumn() string {
	if c.RootID != nil {
		return *c.RootID
	}
	return DefaultRootID
}

// IDColumn returns the local identifier column.
func (c Config) IDColumn() string {
	if c.IDName != "" {
		return c.IDName
	}
	return DefaultIDName
}

// PathSeparator returns the path separator.
func (c Config) PathSeparator() string {
	if c.Separator != "" {
		return c.Separator
	}
	return DefaultSeparator
}

// ParentOf returns the sheet that sheet is nested under.
func (c Config) ParentOf(sheet string) string {
	if parent, ok := c.SubSheets[sheet]; ok && parent != "" {
		return parent
	}
	return c.MainSheetName
}

// skips reports whether column is excluded from field placement.
func (c Config) skips(column string) bool {
	if strings.HasPrefix(column, commentPrefix) {
		return true
	}
	for _, s := range c.SkipColumns {
		if s == column {
			return true
		}
	}
	return false
}

// validate checks the configuration against the sheets of wb.
func (c Config) validate(wb models.Workbook) error {
	if c.MainSheetName == "" {
		return NewConfigError("main sheet", "name is required")
	}
	if _, ok := wb.Sheet(c.MainSheetName); !ok {
		return fmt.Errorf("%w: %q", ErrMainSheetNotFound, c.MainSheetName)
	}
	if c.RootIDColumn() != "" && c.RootIDColumn() == c.IDColumn() {
		return NewConfigError("root id", fmt.Sprintf("%q is also the local id column", c.IDColumn()))
	}

	children := make([]string, 0, len(c.SubSheets))
	for child := range c.SubSheets {
		children = append(children, child)
	}
	sort.Strings(children)
	for _, child := range children {
		parent := c.SubSheets[child]
		if child == c.MainSheetName {
			return NewConfigError("sub sheets", fmt.Sprintf("main sheet %q cannot be nested", child))
		}
		if _, ok := wb.Sheet(child); !ok {
			return NewConfigError("sub sheets", fmt.Sprintf("sheet %q not found", child))
		}
		if _, ok := wb.Sheet(c.ParentOf(child)); !ok {
			return NewConfigError("sub sheets", fmt.Sprintf("parent %q of sheet %q not found", parent, child))
		}
	}

	for _, name := range wb.Names() {
		if name == c.MainSheetName {
			continue
		}
		seen := map[string]bool{name: true}
		for cur := c.ParentOf(name); cur != c.MainSheetName; cur = c.ParentOf(cur) {
			if seen[cur] {
				return NewConfigError("sub sheets", fmt.Sprintf("sheet %q is nested under itself", name))
			}
			seen[cur] = true
		}
	}
	return nil
}
