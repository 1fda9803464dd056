// Package schemafile builds shapeval schemas from declarative YAML or JSON
// documents, so a schema can live next to the data it guards instead of in
// Go code.
//
// A document describes one node; objects nest further documents:
//
//	type: object
//	mode: strict                # strict | optional | expandable | optionalExpandable
//	message: Order is required  # reported when a required object is absent
//	fields:
//	  id:    { type: string, required: true, notEmpty: true, messages: { empty: "Empty!!" } }
//	  price: { type: number, required: true, positive: true, messages: { positive: "Positive!!!" } }
//	  delivery:
//	    type: object
//	    mode: optional
//	    fields:
//	      address: { type: string, required: true, minLength: 3 }
//
// JSON is accepted as well, since every JSON document is valid YAML.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/dsl"
	"github.com/reoring/shapeval/message"
)

// ErrInvalidSchema wraps every problem found in a schema document.
var ErrInvalidSchema = errors.New("schemafile: invalid schema")

// Document is the decoded form of one schema node.
type Document struct {
	Type    string               `yaml:"type"`
	Mode    string               `yaml:"mode"`
	Message string               `yaml:"message"`
	Fields  map[string]*Document `yaml:"fields"`

	Required  bool     `yaml:"required"`
	NotEmpty  bool     `yaml:"notEmpty"`
	MinLength *int     `yaml:"minLength"`
	MaxLength *int     `yaml:"maxLength"`
	Pattern   string   `yaml:"pattern"`
	Enum      []string `yaml:"enum"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Positive  bool     `yaml:"positive"`
	Integer   bool     `yaml:"integer"`

	// Messages overrides default messages by rule name (required, empty,
	// minLength, maxLength, pattern, enum, min, max, positive, integer).
	Messages map[string]string `yaml:"messages"`
}

// Load reads and builds the schema document at path.
func Load(path string) (shapeval.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON schema document and builds it.
func Parse(data []byte) (shapeval.Node, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Decode decodes a schema document without building it. Unknown keys are
// rejected.
func Decode(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return &doc, nil
}

// Build turns a decoded document into a schema node.
func Build(doc *Document) (shapeval.Node, error) {
	return build("", doc)
}

const (
	typeObject = "object"
	typeString = "string"
	typeNumber = "number"
	typeBool   = "bool"
)

var modes = map[string]shapeval.Mode{
	"":                   shapeval.ModeStrict,
	"strict":             shapeval.ModeStrict,
	"optional":           shapeval.ModeOptionalWhole,
	"expandable":         shapeval.ModeExpandable,
	"optionalExpandable": shapeval.ModeOptionalExpandable,
}

// allowedKeys lists the constraint keys (and message names) each type accepts.
var allowedKeys = map[string][]string{
	typeObject: {},
	typeString: {message.Required, message.Empty, message.MinLength, message.MaxLength, message.Pattern, message.Enum},
	typeNumber: {message.Required, message.Min, message.Max, message.Positive, message.Integer},
	typeBool:   {message.Required},
}

func build(path shapeval.Path, doc *Document) (shapeval.Node, error) {
	if doc == nil {
		return nil, invalid(path, "empty node")
	}
	typ := doc.Type
	if typ == "" && doc.Fields != nil {
		typ = typeObject
	}
	allowed, ok := allowedKeys[typ]
	if !ok {
		return nil, invalid(path, "unknown type %q", doc.Type)
	}
	for _, k := range doc.constraintKeys() {
		if !slices.Contains(allowed, k) {
			return nil, invalid(path, "%s does not apply to type %s", k, typ)
		}
	}
	for k := range doc.Messages {
		if !slices.Contains(allowed, k) {
			return nil, invalid(path, "message %q does not apply to type %s", k, typ)
		}
	}
	if typ != typeObject && (doc.Mode != "" || doc.Message != "" || doc.Fields != nil) {
		return nil, invalid(path, "mode, message and fields apply to objects only")
	}

	switch typ {
	case typeString:
		return buildString(path, doc)
	case typeNumber:
		return buildNumber(doc), nil
	case typeBool:
		r := dsl.Bool()
		if doc.Required {
			r = r.Required(doc.Messages[message.Required])
		}
		return r, nil
	}
	return buildObject(path, doc)
}

func buildObject(path shapeval.Path, doc *Document) (shapeval.Node, error) {
	mode, ok := modes[doc.Mode]
	if !ok {
		return nil, invalid(path, "unknown mode %q", doc.Mode)
	}
	if mode.Optional() && doc.Message != "" {
		return nil, invalid(path, "message does not apply to mode %s", mode)
	}
	// build in sorted order so the first reported error is stable
	names := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make(dsl.Fields, len(names))
	for _, name := range names {
		n, err := build(path.Field(name), doc.Fields[name])
		if err != nil {
			return nil, err
		}
		fields[name] = n
	}
	return dsl.Object(mode, fields, doc.Message), nil
}

func buildString(path shapeval.Path, doc *Document) (shapeval.Node, error) {
	msgs := doc.Messages
	r := dsl.Str()
	if doc.Required {
		r = r.Required(msgs[message.Required])
	}
	if doc.NotEmpty {
		r = r.NotEmpty(msgs[message.Empty])
	}
	if doc.MinLength != nil {
		r = r.MinLen(*doc.MinLength, msgs[message.MinLength])
	}
	if doc.MaxLength != nil {
		r = r.MaxLen(*doc.MaxLength, msgs[message.MaxLength])
	}
	if doc.Pattern != "" {
		re, err := regexp.Compile(doc.Pattern)
		if err != nil {
			return nil, invalid(path, "pattern: %v", err)
		}
		r = r.Pattern(re, msgs[message.Pattern])
	}
	if len(doc.Enum) > 0 {
		r = r.OneOf(doc.Enum, msgs[message.Enum])
	}
	return r, nil
}

func buildNumber(doc *Document) shapeval.Node {
	msgs := doc.Messages
	r := dsl.Num()
	if doc.Required {
		r = r.Required(msgs[message.Required])
	}
	if doc.Min != nil {
		r = r.Min(*doc.Min, msgs[message.Min])
	}
	if doc.Max != nil {
		r = r.Max(*doc.Max, msgs[message.Max])
	}
	if doc.Positive {
		r = r.Positive(msgs[message.Positive])
	}
	if doc.Integer {
		r = r.Integer(msgs[message.Integer])
	}
	return r
}

// constraintKeys names the constraints set on doc, using message names.
func (d *Document) constraintKeys() []string {
	var ks []string
	if d.Required {
		ks = append(ks, message.Required)
	}
	if d.NotEmpty {
		ks = append(ks, message.Empty)
	}
	if d.MinLength != nil {
		ks = append(ks, message.MinLength)
	}
	if d.MaxLength != nil {
		ks = append(ks, message.MaxLength)
	}
	if d.Pattern != "" {
		ks = append(ks, message.Pattern)
	}
	if len(d.Enum) > 0 {
		ks = append(ks, message.Enum)
	}
	if d.Min != nil {
		ks = append(ks, message.Min)
	}
	if d.Max != nil {
		ks = append(ks, message.Max)
	}
	if d.Positive {
		ks = append(ks, message.Positive)
	}
	if d.Integer {
		ks = append(ks, message.Integer)
	}
	return ks
}

func invalid(path shapeval.Path, format string, a ...any) error {
	where := path.String()
	if where == "" {
		where = "<root>"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidSchema, where, fmt.Sprintf(format, a...))
}
