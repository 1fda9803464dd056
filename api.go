package shapeval

import (
	js "github.com/reoring/shapeval/jsonschema"
)

// Node is a schema node: a field rule or an object rule.
//
// Evaluate validates v at path and returns the sanitized value together with
// every issue found. A nil v means the value is absent; a nil sanitized value
// means "undefined" and is omitted by enclosing objects. Evaluate must not
// mutate the node or v, so one node can serve concurrent callers.
type Node interface {
	Evaluate(path Path, v any) (any, Issues)

	// JSONSchema projects the node into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// Validate walks input against schema and collects the outcome.
func Validate(input any, schema Node) Result {
	value, iss := schema.Evaluate("", input)
	return newResult(value, iss)
}

// Is returns true if input conforms to schema.
func Is(input any, schema Node) bool {
	_, iss := schema.Evaluate("", input)
	return len(iss) == 0
}

// ExportJSONSchema projects schema into a standalone JSON Schema document.
func ExportJSONSchema(schema Node) (*js.Schema, error) {
	s, err := schema.JSONSchema()
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &js.Schema{}
	}
	s.Schema = js.Draft
	return s, nil
}
