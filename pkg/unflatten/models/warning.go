package models

// WarningKind classifies a non-fatal diagnostic.
type WarningKind string

const (
	// WarningConflict reports two different values supplied for one field.
	WarningConflict WarningKind = "conflict"
	// WarningMissingParentID reports a sub-sheet row that cannot be joined.
	WarningMissingParentID WarningKind = "missing-parent-id"
	// WarningMissingID reports a main-sheet row without any identity value.
	WarningMissingID WarningKind = "missing-id"
)

// Warning is a diagnostic raised while unflattening. The row it names was
// still processed, or skipped, according to the kind.
type Warning struct {
	// Kind is the warning class.
	Kind WarningKind `json:"kind"`
	// Sheet is the sheet holding the offending row.
	Sheet string `json:"sheet"`
	// Line is the 1-based line number of the offending row.
	Line int `json:"line"`
	// Path is the affected field path, empty for row-level warnings.
	Path string `json:"path,omitempty"`
	// Existing is the value kept (conflicts only).
	Existing interface{} `json:"existing,omitempty"`
	// Incoming is the value discarded (conflicts only).
	Incoming interface{} `json:"incoming,omitempty"`
	// Message is the human-readable description.
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}
