package dsl

import (
	"maps"
	"slices"
	"sort"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/message"
)

// Fields maps field names to their schema nodes.
type Fields map[string]shapeval.Node

// Obj creates a required object rule that drops undeclared keys. When the
// object is absent, missingMsg (or "Value is required") is reported at its
// path.
func Obj(fields Fields, missingMsg ...string) *ObjectRule {
	return newObject(shapeval.ModeStrict, fields, missingMsg)
}

// ObjOptional creates an object rule that may be omitted entirely but is
// fully validated when present. Undeclared keys are dropped.
func ObjOptional(fields Fields) *ObjectRule {
	return newObject(shapeval.ModeOptionalWhole, fields, nil)
}

// ExpandableObject creates a required object rule that keeps undeclared keys
// unchanged in its output.
func ExpandableObject(fields Fields, missingMsg ...string) *ObjectRule {
	return newObject(shapeval.ModeExpandable, fields, missingMsg)
}

// OptionalExpandableObject is ExpandableObject for an object that may be
// omitted entirely.
func OptionalExpandableObject(fields Fields) *ObjectRule {
	return newObject(shapeval.ModeOptionalExpandable, fields, nil)
}

// Object creates an object rule with an explicit mode.
func Object(mode shapeval.Mode, fields Fields, missingMsg ...string) *ObjectRule {
	return newObject(mode, fields, missingMsg)
}

func newObject(mode shapeval.Mode, fields Fields, missingMsg []string) *ObjectRule {
	fs := make(Fields, len(fields))
	for k, n := range fields {
		if n == nil {
			continue
		}
		fs[k] = n
	}
	// cache sorted keys for deterministic issue order without per-call sorting
	kfs := make([]string, 0, len(fs))
	for k := range fs {
		kfs = append(kfs, k)
	}
	sort.Strings(kfs)
	return &ObjectRule{
		fields:     fs,
		keys:       kfs,
		mode:       mode,
		missingMsg: msgOr(message.T(message.Required, nil), missingMsg),
	}
}

func (o *ObjectRule) edit() *ObjectRule {
	if !o.sealed.Load() {
		return o
	}
	return &ObjectRule{
		fields:     maps.Clone(o.fields),
		keys:       slices.Clone(o.keys),
		mode:       o.mode,
		missingMsg: o.missingMsg,
		checks:     slices.Clone(o.checks),
	}
}

// Message overrides the message reported when a required object is absent.
func (o *ObjectRule) Message(msg string) *ObjectRule {
	o = o.edit()
	o.missingMsg = msgOr(o.missingMsg, []string{msg})
	return o
}

// Must adds an object-level predicate. It runs on the sanitized object only
// when no declared field reported an issue, and reports at the object's own
// path.
func (o *ObjectRule) Must(fn func(map[string]any) bool, msg ...string) *ObjectRule {
	if fn == nil {
		return o
	}
	o = o.edit()
	o.checks = append(o.checks, check[map[string]any]{fn: fn, msg: msgOr(message.T(message.Predicate, nil), msg)})
	return o
}

// Mode returns the object's presence and unknown-key mode.
func (o *ObjectRule) Mode() shapeval.Mode { return o.mode }

// Keys returns the declared field names in ascending order.
func (o *ObjectRule) Keys() []string { return slices.Clone(o.keys) }

// Field returns the node declared for name.
func (o *ObjectRule) Field(name string) (shapeval.Node, bool) {
	n, ok := o.fields[name]
	return n, ok
}
