package unflatten

import (
	"fmt"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// reconciler merges partial trees into each other. Whatever is already in
// the destination wins; every disagreement is reported as a warning.
type reconciler struct {
	mainSheet string
	rootID    string
	idName    string
	report    func(models.Warning)
}

// merge folds src into dst. at is the path of dst inside its record.
func (r *reconciler) merge(dst, src *models.Node, at Path) {
	switch {
	case dst.Kind == models.KindMapping && src.Kind == models.KindMapping:
		for _, key := range src.Keys() {
			incoming, _ := src.Get(key)
			existing, ok := dst.Get(key)
			if !ok {
				dst.Set(key, incoming)
				continue
			}
			r.merge(existing, incoming, at.Field(key))
		}
	case dst.Kind == models.KindSequence && src.Kind == models.KindSequence:
		for _, item := range src.Items() {
			pos := r.match(dst, item)
			if pos < 0 {
				dst.Append(item)
				continue
			}
			r.merge(dst.Item(pos), item, at.Position(pos))
		}
	case dst.Kind == models.KindScalar && src.Kind == models.KindScalar:
		if !r.sameScalar(at, dst.Value, src.Value) {
			r.conflict(clash{path: at, existing: dst, incoming: src})
		}
	default:
		r.conflict(clash{path: at, existing: dst, incoming: src})
	}
}

// sameScalar compares two values at. Identifier fields compare as text,
// the same way rows are joined on them.
func (r *reconciler) sameScalar(at Path, a, b interface{}) bool {
	if r.isIdentifier(at) {
		return models.ScalarText(a) == models.ScalarText(b)
	}
	return models.ScalarEqual(a, b)
}

// isIdentifier reports whether at names a local id field at any depth or
// the root id field of the record.
func (r *reconciler) isIdentifier(at Path) bool {
	if len(at) == 0 {
		return false
	}
	last := at[len(at)-1]
	if last.IsIndex {
		return false
	}
	return last.Name == r.idName || (len(at) == 1 && r.rootID != "" && last.Name == r.rootID)
}

// match returns the position in list of the element item belongs to, or
// -1. Elements carrying a local id match on it; elements without one match
// the id-less element created from the same array index.
func (r *reconciler) match(list, item *models.Node) int {
	if id, ok := r.itemID(item); ok {
		for i, existing := range list.Items() {
			if other, ok := r.itemID(existing); ok && other == id {
				return i
			}
		}
		return -1
	}
	for i, existing := range list.Items() {
		if _, ok := r.itemID(existing); !ok && existing.Index == item.Index {
			return i
		}
	}
	return -1
}

func (r *reconciler) itemID(n *models.Node) (string, bool) {
	if n.Kind != models.KindMapping {
		return "", false
	}
	id, ok := n.Get(r.idName)
	if !ok || id.Kind != models.KindScalar || models.IsAbsent(id.Value) {
		return "", false
	}
	return models.ScalarText(id.Value), true
}

// conflict reports a clash, attributing it to the incoming value's row.
func (r *reconciler) conflict(c clash) {
	lead := "Conflict when merging field"
	if c.existing.Origin.Sheet == r.mainSheet && c.incoming.Origin.Sheet != r.mainSheet {
		lead = "Conflict between main sheet and sub sheet for field"
	}
	existing, incoming := c.existing.Describe(), c.incoming.Describe()
	r.report(models.Warning{
		Kind:     models.WarningConflict,
		Sheet:    c.incoming.Origin.Sheet,
		Line:     c.incoming.Origin.Line,
		Path:     c.path.String(),
		Existing: existing,
		Incoming: incoming,
		Message: fmt.Sprintf("%s %q on line %d of sheet %s: %v != %v, keeping the value from line %d of sheet %s",
			lead, c.path.String(), c.incoming.Origin.Line, c.incoming.Origin.Sheet,
			existing, incoming, c.existing.Origin.Line, c.existing.Origin.Sheet),
	})
}

// missingParentID reports a sub-sheet row that names no parent record.
func (r *reconciler) missingParentID(sheet string, line int, columns []string) {
	r.report(models.Warning{
		Kind:    models.WarningMissingParentID,
		Sheet:   sheet,
		Line:    line,
		Message: fmt.Sprintf("Line %d of sheet %s has no parent id fields populated %v, skipping it", line, sheet, columns),
	})
}

// missingID reports a main-sheet row without any identity value.
func (r *reconciler) missingID(sheet string, line int, columns []string) {
	r.report(models.Warning{
		Kind:    models.WarningMissingID,
		Sheet:   sheet,
		Line:    line,
		Message: fmt.Sprintf("Line %d of sheet %s has no id fields populated %v, skipping it", line, sheet, columns),
	})
}
