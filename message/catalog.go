// Package message holds the default messages attached to built-in issue codes.
//
// Schema authors override messages per rule (Required("..."), NotEmpty("..."),
// Must(fn, "...")); the catalog only supplies the text used when they do not.
package message

import "strings"

// Catalog retrieves the default message for an issue code. data carries
// optional parameters (for example "kind" for invalid_type, or "min" for a
// named numeric check).
type Catalog interface {
	Message(code string, data map[string]string) string
}

// Codes understood by the built-in catalog. They mirror the issue codes of
// the root package plus the names of the built-in checks.
const (
	Required    = "required"
	Empty       = "empty"
	InvalidType = "invalid_type"
	Predicate   = "predicate"

	MinLength = "minLength"
	MaxLength = "maxLength"
	Pattern   = "pattern"
	Enum      = "enum"
	Min       = "min"
	Max       = "max"
	Positive  = "positive"
	Integer   = "integer"
)

// dictCatalog is the built-in English catalog.
type dictCatalog struct{}

func (dictCatalog) Message(code string, data map[string]string) string {
	switch code {
	case Required:
		return "Value is required"
	case Empty:
		return "Value must not be empty"
	case InvalidType:
		switch data["kind"] {
		case "string":
			return "Value must be a string"
		case "number":
			return "Value must be a number"
		case "bool":
			return "Value must be a boolean"
		}
		return "Value has an invalid type"
	case Predicate:
		return "Value is invalid"
	case MinLength:
		return "Value must be at least " + data["min"] + " characters long"
	case MaxLength:
		return "Value must be at most " + data["max"] + " characters long"
	case Pattern:
		return "Value does not match pattern " + data["pattern"]
	case Enum:
		return "Value must be one of " + strings.ReplaceAll(data["values"], ",", ", ")
	case Min:
		return "Value must be at least " + data["min"]
	case Max:
		return "Value must be at most " + data["max"]
	case Positive:
		return "Value must be positive"
	case Integer:
		return "Value must be an integer"
	}
	return code
}

var current Catalog = dictCatalog{}

// SetCatalog replaces the default catalog. A nil catalog restores the
// built-in one. It must be called before schemas are built, since rules
// resolve their default messages at build time.
func SetCatalog(c Catalog) {
	if c == nil {
		current = dictCatalog{}
		return
	}
	current = c
}

// T fetches a message for the given code using the current catalog.
func T(code string, data map[string]string) string { return current.Message(code, data) }
