package unflatten

import (
	"errors"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// identity is the join key of a row: root id and local id, as text.
type identity struct {
	root  string
	local string
}

func (k identity) empty() bool {
	return k.root == "" && k.local == ""
}

// column is the placement plan for one header.
type column struct {
	path Path
	skip bool
}

// rowMerger turns the rows of one sheet into partial record trees.
type rowMerger struct {
	sheet   string
	columns map[string]column
	// idColumns are the identity columns present in the sheet header.
	idColumns []string
	rootID    string
	idName    string
	rec       *reconciler
}

// newRowMerger parses every column of sheet once.
func newRowMerger(sheet models.Sheet, cfg Config, rec *reconciler) (*rowMerger, error) {
	m := &rowMerger{
		sheet:   sheet.Name,
		columns: make(map[string]column),
		rootID:  cfg.RootIDColumn(),
		idName:  cfg.IDColumn(),
		rec:     rec,
	}

	add := func(name string) error {
		if _, ok := m.columns[name]; ok {
			return nil
		}
		if cfg.skips(name) {
			m.columns[name] = column{skip: true}
			return nil
		}
		path, err := ParsePath(name, cfg.PathSeparator())
		if err != nil {
			var perr *MalformedPathError
			if errors.As(err, &perr) {
				perr.Sheet = sheet.Name
			}
			return err
		}
		if path[0].IsIndex {
			return &MalformedPathError{Sheet: sheet.Name, Column: name, Reason: "path must start with a field name"}
		}
		m.columns[name] = column{path: path}
		return nil
	}

	for _, name := range sheet.Columns {
		if err := add(name); err != nil {
			return nil, err
		}
	}
	for _, row := range sheet.Rows {
		for _, cell := range row.Cells {
			if err := add(cell.Column); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range []string{m.rootID, m.idName} {
		if name != "" && m.declares(sheet, name) {
			m.idColumns = append(m.idColumns, name)
		}
	}
	return m, nil
}

func (m *rowMerger) declares(sheet models.Sheet, name string) bool {
	if sheet.HasColumn(name) {
		return true
	}
	for _, row := range sheet.Rows {
		if _, ok := row.Get(name); ok {
			return true
		}
	}
	return false
}

// identify reads the identity columns of row.
func (m *rowMerger) identify(row models.Row) identity {
	var key identity
	if m.rootID != "" {
		v, _ := row.Get(m.rootID)
		key.root = models.ScalarText(v)
	}
	v, _ := row.Get(m.idName)
	key.local = models.ScalarText(v)
	return key
}

// joinable reports whether every identity column the sheet declares is
// populated in row. A sheet declaring none cannot be joined at all.
func (m *rowMerger) joinable(row models.Row) bool {
	if len(m.idColumns) == 0 {
		return false
	}
	for _, name := range m.idColumns {
		v, _ := row.Get(name)
		if models.IsAbsent(v) {
			return false
		}
	}
	return true
}

// merge builds the tree of one row. Absent cells and skipped columns
// contribute nothing, not even empty containers.
func (m *rowMerger) merge(row models.Row, line int) *models.Node {
	origin := models.Origin{Sheet: m.sheet, Line: line}
	root := models.NewMapping(origin)
	b := newBuilder(origin)
	for _, cell := range row.Cells {
		col := m.columns[cell.Column]
		if col.skip || models.IsAbsent(cell.Value) {
			continue
		}
		if c := b.place(root, col.path, cell.Value); c != nil {
			m.rec.conflict(*c)
		}
	}
	return root
}
