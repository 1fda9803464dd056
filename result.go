package shapeval

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Result is the outcome of a single validation call. It is owned by the
// caller; nothing in it is shared with the schema.
type Result struct {
	Valid bool
	// Errors maps dotted paths to messages; nil when Valid.
	Errors Errors
	// Value is the sanitized value. For object schemas it is a
	// map[string]any holding only declared fields (plus undeclared ones for
	// expandable objects).
	Value any
	// Issues carries the same violations as Errors with their codes; nil
	// when Valid.
	Issues Issues
}

func newResult(value any, iss Issues) Result {
	if len(iss) == 0 {
		return Result{Valid: true, Value: value}
	}
	return Result{Valid: false, Errors: iss.Errors(), Value: value, Issues: iss}
}

// Err returns the issues as an error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Issues
}

// Get returns a top-level field of the sanitized value. It mirrors reading
// the field directly from the result object.
func (r Result) Get(field string) (any, bool) {
	m, ok := r.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}

// Reserved keys win over sanitized fields of the same name when a Result is
// marshaled.
const (
	resultKeyValid  = "valid"
	resultKeyErrors = "errors"
	resultKeyValue  = "value"
)

// MarshalJSON renders {"valid", "errors", "value"} with the sanitized
// top-level fields spread alongside them. A sanitized field named valid,
// errors or value is not spread; "errors" is omitted entirely when valid,
// so a field of that name then appears only under "value".
func (r Result) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if m, ok := r.Value.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	out[resultKeyValid] = r.Valid
	out[resultKeyValue] = r.Value
	if r.Valid {
		delete(out, resultKeyErrors)
	} else {
		out[resultKeyErrors] = r.Errors
	}
	return json.Marshal(out)
}

// ValidateInto validates input and, when valid, maps the sanitized value onto
// dst through its JSON tags. An invalid result is returned together with its
// Issues as the error.
func ValidateInto(input any, schema Node, dst any) (Result, error) {
	res := Validate(input, schema)
	if !res.Valid {
		return res, res.Issues
	}
	b, err := json.Marshal(res.Value)
	if err != nil {
		return res, fmt.Errorf("shapeval: encode sanitized value: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return res, fmt.Errorf("shapeval: map sanitized value: %w", err)
	}
	return res, nil
}
