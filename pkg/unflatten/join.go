package unflatten

import (
	"go.uber.org/zap"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// group is the merged tree of every row of one sheet sharing an identity.
type group struct {
	key     identity
	line    int
	rows    []int
	node    *models.Node
	claimed bool
}

// groupSet keeps groups in first-seen order with lookup by identity.
type groupSet struct {
	order []*group
	byKey map[identity]*group
}

func newGroupSet() *groupSet {
	return &groupSet{byKey: make(map[identity]*group)}
}

func (s *groupSet) get(key identity) (*group, bool) {
	g, ok := s.byKey[key]
	return g, ok
}

func (s *groupSet) add(g *group) {
	s.order = append(s.order, g)
	s.byKey[g.key] = g
}

// index assigns the rows of sheet to groups without building any tree.
// Blank rows are skipped silently; rows that cannot be identified are
// reported and skipped.
func (r *run) index(sheet models.Sheet) *groupSet {
	m := r.mergers[sheet.Name]
	main := sheet.Name == r.cfg.MainSheetName
	set := newGroupSet()
	for i, row := range sheet.Rows {
		if row.IsBlank() {
			continue
		}
		line := sheet.LineOf(i)
		key := m.identify(row)
		switch {
		case main && key.empty():
			r.rec.missingID(sheet.Name, line, m.idColumns)
			continue
		case !main && !m.joinable(row):
			r.rec.missingParentID(sheet.Name, line, m.idColumns)
			continue
		}

		if g, ok := set.get(key); ok {
			g.rows = append(g.rows, i)
			continue
		}
		set.add(&group{key: key, line: line, rows: []int{i}})
	}
	return set
}

// build merges the row trees of g. Later rows never override earlier ones.
func (r *run) build(sheet models.Sheet, g *group) *models.Node {
	m := r.mergers[sheet.Name]
	for _, i := range g.rows {
		tree := m.merge(sheet.Rows[i], sheet.LineOf(i))
		if g.node == nil {
			g.node = tree
			continue
		}
		r.rec.merge(g.node, tree, nil)
	}
	return g.node
}

// resolve groups a sub-sheet and folds its own sub-sheets into it first,
// so the returned groups are complete.
//
// Groups of a nested sheet that match no group here are carried up
// unchanged; only the main sheet drops them.
func (r *run) resolve(name string) *groupSet {
	sheet := r.sheets[name]
	set := r.index(sheet)
	for _, g := range set.order {
		r.build(sheet, g)
	}

	for _, child := range r.children[name] {
		nested := r.resolve(child)
		carried := 0
		for _, g := range nested.order {
			if owner, ok := set.get(g.key); ok {
				r.rec.merge(owner.node, g.node, nil)
				continue
			}
			set.add(g)
			carried++
		}
		r.logger.Debug("merged nested sheet",
			zap.String("sheet", child),
			zap.String("parent", name),
			zap.Int("groups", len(nested.order)),
			zap.Int("carried", carried))
	}

	r.logger.Debug("resolved sheet", zap.String("sheet", name), zap.Int("groups", len(set.order)))
	return set
}
