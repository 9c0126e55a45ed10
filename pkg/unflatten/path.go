package unflatten

import (
	"strconv"
	"strings"
)

// Segment is one unit of a column path: a field name or an array index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path is a parsed column name.
type Path []Segment

// String joins the path with "/".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// Field returns a copy of p extended by a field segment.
func (p Path) Field(name string) Path {
	return p.with(Segment{Name: name})
}

// Position returns a copy of p extended by an index segment.
func (p Path) Position(i int) Path {
	return p.with(Segment{Index: i, IsIndex: true})
}

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// ParsePath splits column on sep. A segment made only of ASCII digits is an
// array index; anything else is a field name. Empty columns, empty segments
// and indices that do not fit in an int are rejected.
func ParsePath(column, sep string) (Path, error) {
	if column == "" {
		return nil, &MalformedPathError{Column: column, Reason: "empty column name"}
	}
	if sep == "" {
		sep = DefaultSeparator
	}

	parts := strings.Split(column, sep)
	path := make(Path, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, &MalformedPathError{Column: column, Reason: "empty segment " + strconv.Itoa(i+1)}
		}
		if isDigits(part) {
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, &MalformedPathError{Column: column, Reason: "index " + part + " out of range"}
			}
			path = append(path, Segment{Index: idx, IsIndex: true})
			continue
		}
		path = append(path, Segment{Name: part})
	}
	return path, nil
}

// isDigits reports whether s is made only of ASCII digits.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
