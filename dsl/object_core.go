package dsl

import (
	"reflect"
	"sort"
	"sync/atomic"

	"github.com/reoring/shapeval"
	js "github.com/reoring/shapeval/jsonschema"
)

// ObjectRule validates an object field by field. Build it with Obj,
// ObjOptional, ExpandableObject or OptionalExpandableObject; it and its
// whole subtree are sealed by its first Evaluate.
type ObjectRule struct {
	fields     Fields
	keys       []string
	mode       shapeval.Mode
	missingMsg string
	checks     []check[map[string]any]
	sealed     atomic.Bool
}

// Ensure ObjectRule implements shapeval.Node
var _ shapeval.Node = (*ObjectRule)(nil)

// sealer is implemented by the rules of this package.
type sealer interface{ seal() }

// requirer reports whether an absent value is an error; it feeds the
// "required" list of the JSON Schema projection.
type requirer interface{ isRequired() bool }

func (o *ObjectRule) seal() {
	if !o.sealed.CompareAndSwap(false, true) {
		return
	}
	for _, n := range o.fields {
		if s, ok := n.(sealer); ok {
			s.seal()
		}
	}
}

func (o *ObjectRule) isRequired() bool { return !o.mode.Optional() }

// Evaluate implements shapeval.Node.
func (o *ObjectRule) Evaluate(path shapeval.Path, v any) (any, shapeval.Issues) {
	o.seal()
	if v == nil {
		if o.mode.Optional() {
			return nil, nil
		}
		return nil, shapeval.Issues{path.Issue(shapeval.CodeRequired, o.missingMsg)}
	}
	// A non-object value behaves like an empty object: required fields
	// report under path.field.
	src, _ := asObject(v)
	out := o.newOutput(src)
	var iss shapeval.Issues
	for _, k := range o.keys {
		val, fi := o.fields[k].Evaluate(path.Field(k), src[k])
		if len(fi) > 0 {
			iss = shapeval.AppendIssues(iss, fi...)
		}
		if val != nil {
			out[k] = val
		}
	}
	if o.mode.Expandable() {
		o.collectUnknown(src, out)
	}
	if len(iss) == 0 {
		iss = o.refine(path, out)
	}
	return out, iss
}

// newOutput allocates the output map sized for the declared fields, and for
// the whole input when undeclared keys are kept.
func (o *ObjectRule) newOutput(src map[string]any) map[string]any {
	if o.mode.Expandable() {
		return make(map[string]any, max(len(src), len(o.keys)))
	}
	return make(map[string]any, len(o.keys))
}

// collectUnknown copies undeclared keys into out without copying their values.
func (o *ObjectRule) collectUnknown(src, out map[string]any) {
	for k, v := range src {
		if _, known := o.fields[k]; known {
			continue
		}
		out[k] = v
	}
}

func (o *ObjectRule) refine(path shapeval.Path, out map[string]any) shapeval.Issues {
	var iss shapeval.Issues
	for _, ch := range o.checks {
		if ch.fn(out) {
			continue
		}
		iss = shapeval.AppendIssues(iss, path.Issue(shapeval.CodePredicate, ch.msg))
	}
	return iss
}

// JSONSchema implements shapeval.Node.
func (o *ObjectRule) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	var req []string
	for k, n := range o.fields {
		ps, err := n.JSONSchema()
		if err != nil {
			return nil, err
		}
		if ps == nil {
			ps = &js.Schema{}
		}
		props[k] = ps
		if r, ok := n.(requirer); ok && r.isRequired() {
			req = append(req, k)
		}
	}
	// Required list (sorted for deterministic output)
	sort.Strings(req)
	// Every mode accepts undeclared keys at runtime (dropped or kept), so
	// they are allowed in JSON Schema terms.
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: true}, nil
}

// asObject returns v as map[string]any. Maps with other value types but
// string keys are copied shallowly; anything else yields (nil, false).
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
