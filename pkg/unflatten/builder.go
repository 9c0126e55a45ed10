package unflatten

import "github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"

// clash describes a value that could not be placed because the location
// already holds something different. The existing node is kept.
type clash struct {
	path     Path
	existing *models.Node
	incoming *models.Node
}

// builder places path/value pairs into a tree, creating intermediate
// mappings and sequences on the way.
//
// Array indices are resolved through slots, kept per sequence node. The
// first time an index is seen under a sequence a new element is appended
// and its position recorded, so positions follow first-seen order and
// indices are never renumbered.
type builder struct {
	origin models.Origin
	slots  map[*models.Node]map[int]int
}

func newBuilder(origin models.Origin) *builder {
	return &builder{origin: origin, slots: make(map[*models.Node]map[int]int)}
}

// place writes value at path inside root.
func (b *builder) place(root *models.Node, path Path, value interface{}) *clash {
	cur := root
	for i := range path {
		at := path[:i+1]
		if i == len(path)-1 {
			return b.setScalar(cur, at, value)
		}
		next, c := b.descend(cur, at, path[i+1])
		if c != nil {
			return c
		}
		cur = next
	}
	return nil
}

// descend returns the container at the last segment of at, creating one
// shaped for the following segment when absent.
func (b *builder) descend(cur *models.Node, at Path, following Segment) (*models.Node, *clash) {
	want := models.KindMapping
	if following.IsIndex {
		want = models.KindSequence
	}

	child, ok, c := b.lookup(cur, at)
	if c != nil {
		return nil, c
	}
	if ok {
		if child.Kind != want {
			return nil, &clash{path: at, existing: child, incoming: b.container(want)}
		}
		return child, nil
	}

	child = b.container(want)
	b.attach(cur, at, child)
	return child, nil
}

func (b *builder) setScalar(cur *models.Node, at Path, value interface{}) *clash {
	incoming := models.NewScalar(value, b.origin)
	child, ok, c := b.lookup(cur, at)
	if c != nil {
		c.incoming = incoming
		return c
	}
	if !ok {
		b.attach(cur, at, incoming)
		return nil
	}
	if child.Kind != models.KindScalar || !models.ScalarEqual(child.Value, value) {
		return &clash{path: at, existing: child, incoming: incoming}
	}
	return nil
}

// lookup finds the child addressed by the last segment of at. cur must be
// a sequence for index segments and a mapping for field segments.
func (b *builder) lookup(cur *models.Node, at Path) (*models.Node, bool, *clash) {
	seg := at[len(at)-1]
	if seg.IsIndex {
		if cur.Kind != models.KindSequence {
			return nil, false, &clash{path: at[:len(at)-1], existing: cur, incoming: models.NewSequence(b.origin)}
		}
		pos, ok := b.slots[cur][seg.Index]
		if !ok {
			return nil, false, nil
		}
		return cur.Item(pos), true, nil
	}

	if cur.Kind != models.KindMapping {
		return nil, false, &clash{path: at[:len(at)-1], existing: cur, incoming: models.NewMapping(b.origin)}
	}
	child, ok := cur.Get(seg.Name)
	return child, ok, nil
}

func (b *builder) attach(cur *models.Node, at Path, child *models.Node) {
	seg := at[len(at)-1]
	if seg.IsIndex {
		child.Index = seg.Index
		if b.slots[cur] == nil {
			b.slots[cur] = make(map[int]int)
		}
		b.slots[cur][seg.Index] = cur.Append(child)
		return
	}
	cur.Set(seg.Name, child)
}

func (b *builder) container(kind models.Kind) *models.Node {
	if kind == models.KindSequence {
		return models.NewSequence(b.origin)
	}
	return models.NewMapping(b.origin)
}
