package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	// KindScalar is a leaf value.
	KindScalar Kind = iota
	// KindMapping is an object with ordered keys.
	KindMapping
	// KindSequence is an ordered list.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "object"
	case KindSequence:
		return "array"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Origin locates the cell that created a node.
type Origin struct {
	Sheet string
	Line  int
}

// Node is one value of a reconstructed record.
//
// Mappings keep their keys in insertion order. Sequence elements remember
// the array index segment they were created from in Index, so elements
// coming from different sheets can be matched without renumbering.
type Node struct {
	Kind   Kind
	Value  interface{}
	Origin Origin
	Index  int

	keys   []string
	fields map[string]*Node
	items  []*Node
}

// NewScalar returns a scalar node holding v.
func NewScalar(v interface{}, origin Origin) *Node {
	return &Node{Kind: KindScalar, Value: v, Origin: origin, Index: -1}
}

// NewMapping returns an empty mapping node.
func NewMapping(origin Origin) *Node {
	return &Node{Kind: KindMapping, Origin: origin, Index: -1, fields: make(map[string]*Node)}
}

// NewSequence returns an empty sequence node.
func NewSequence(origin Origin) *Node {
	return &Node{Kind: KindSequence, Origin: origin, Index: -1}
}

// Get returns the child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	child, ok := n.fields[key]
	return child, ok
}

// Set stores child under key. A new key goes after the existing ones; a
// replaced key keeps its position.
func (n *Node) Set(key string, child *Node) {
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	return n.keys
}

// Items returns the sequence elements.
func (n *Node) Items() []*Node {
	return n.items
}

// Item returns the i-th sequence element.
func (n *Node) Item(i int) *Node {
	return n.items[i]
}

// Append adds child to the sequence and returns its position.
func (n *Node) Append(child *Node) int {
	n.items = append(n.items, child)
	return len(n.items) - 1
}

// Len returns the number of keys or elements.
func (n *Node) Len() int {
	switch n.Kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	}
	return 0
}

// Interface converts the node to plain Go values: map[string]interface{},
// []interface{} and scalars.
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case KindMapping:
		m := make(map[string]interface{}, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].Interface()
		}
		return m
	case KindSequence:
		s := make([]interface{}, 0, len(n.items))
		for _, item := range n.items {
			s = append(s, item.Interface())
		}
		return s
	}
	return n.Value
}

// Describe renders the node for diagnostics.
func (n *Node) Describe() interface{} {
	if n.Kind == KindScalar {
		return n.Value
	}
	return n.Kind.String()
}

// MarshalJSON encodes the node, keeping mapping keys in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind {
	case KindMapping:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := n.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		data, err := json.Marshal(n.Value)
		if err != nil {
			return fmt.Errorf("encode value from line %d of sheet %s: %w", n.Origin.Line, n.Origin.Sheet, err)
		}
		buf.Write(data)
	}
	return nil
}

// ScalarEqual compares two cell values. Numbers compare by value across
// integer and float types.
func ScalarEqual(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

// ScalarText renders a cell value as text, used for identity keys.
func ScalarText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
