package shapeval

import "strings"

// Path is a dotted field path. The zero value addresses the root value.
type Path string

// Field returns the path of a child field.
func (p Path) Field(name string) Path {
	return Path(JoinPath(string(p), name))
}

// Parts splits the path into its field names; the root has none.
func (p Path) Parts() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

func (p Path) String() string { return string(p) }

// Issue creates an Issue at this path.
func (p Path) Issue(code, msg string) Issue {
	return Issue{Path: string(p), Code: code, Message: msg}
}

// JoinPath joins a parent path and a field name with ".". Fields of the root
// value have no leading separator.
func JoinPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}
