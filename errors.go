package shapeval

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes
const (
	CodeRequired    = "required"
	CodeEmpty       = "empty"
	CodeInvalidType = "invalid_type"
	CodePredicate   = "predicate"
)

// ErrDecode wraps failures to decode a Source before validation.
var ErrDecode = errors.New("shapeval: decode")

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Dotted path (for example: delivery.price); "" for the root value.
	Code    string // One of the codes listed above.
	Message string
	// Rule optionally records the named check that produced this issue
	// (for example "minLength"); empty for anonymous Must predicates.
	Rule string
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at delivery.price
		fmt.Fprintf(b, "%s at %s", it.Code, displayPath(it.Path))
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Errors groups the issue messages by path, preserving evaluation order.
// It returns nil for an empty collection.
func (iss Issues) Errors() Errors {
	if len(iss) == 0 {
		return nil
	}
	out := make(Errors, len(iss))
	for _, it := range iss {
		out.Add(it.Path, it.Message)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Errors maps a dotted path to the ordered messages reported there.
type Errors map[string][]string

// Add appends msg to the messages at path.
func (e Errors) Add(path, msg string) {
	e[path] = append(e[path], msg)
}

// Has reports whether any message was recorded at path.
func (e Errors) Has(path string) bool {
	return len(e[path]) > 0
}

// First returns the first message at path, or "" when there is none.
func (e Errors) First(path string) string {
	if msgs := e[path]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}
