package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Only keywords that shapeval rules can express are modeled.
type Schema struct {
	// Core
	Schema      string `json:"$schema,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
}

// Draft is the dialect URI stamped on exported root schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Ptr returns a pointer to v, for the optional numeric keywords.
func Ptr[T any](v T) *T { return &v }
