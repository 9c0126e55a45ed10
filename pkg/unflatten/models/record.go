package models

// Record is one reconstructed object, built from every row sharing a
// main-sheet identity.
type Record struct {
	// RootID is the root identifier value as text (empty when disabled).
	RootID string
	// ID is the local identifier value as text.
	ID string
	// Line is the main-sheet line the record first appeared on.
	Line int
	// Root is the record mapping.
	Root *Node
}

// Map returns the record as plain Go values.
func (r *Record) Map() map[string]interface{} {
	m, _ := r.Root.Interface().(map[string]interface{})
	return m
}

// MarshalJSON encodes the record with its keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.Root.MarshalJSON()
}
