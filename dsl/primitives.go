package dsl

import (
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/reoring/shapeval"
	js "github.com/reoring/shapeval/jsonschema"
	"github.com/reoring/shapeval/message"
)

// check is one (predicate, message) pair of a rule. rule names the built-in
// check that created it; project mirrors it into JSON Schema when possible.
type check[T any] struct {
	rule    string
	fn      func(T) bool
	msg     string
	project func(*js.Schema)
}

// fieldCore holds the state shared by all primitive rules.
type fieldCore[T any] struct {
	kind        shapeval.Kind
	required    bool
	requiredMsg string
	typeMsg     string
	checks      []check[T]
	sealed      atomic.Bool
}

func newFieldCore[T any](kind shapeval.Kind) *fieldCore[T] {
	return &fieldCore[T]{
		kind:        kind,
		requiredMsg: message.T(message.Required, nil),
		typeMsg:     message.T(message.InvalidType, map[string]string{"kind": kind.String()}),
	}
}

func (c *fieldCore[T]) clone() *fieldCore[T] {
	return &fieldCore[T]{
		kind:        c.kind,
		required:    c.required,
		requiredMsg: c.requiredMsg,
		typeMsg:     c.typeMsg,
		checks:      slices.Clone(c.checks),
	}
}

func (c *fieldCore[T]) setRequired(msg []string) {
	c.required = true
	c.requiredMsg = msgOr(c.requiredMsg, msg)
}

func (c *fieldCore[T]) add(ch check[T]) {
	if ch.fn == nil {
		return
	}
	c.checks = append(c.checks, ch)
}

// missing reports the issue for an absent value, if any.
func (c *fieldCore[T]) missing(path shapeval.Path) shapeval.Issues {
	if !c.required {
		return nil
	}
	return shapeval.Issues{path.Issue(shapeval.CodeRequired, c.requiredMsg)}
}

func (c *fieldCore[T]) mismatch(path shapeval.Path) shapeval.Issues {
	return shapeval.Issues{path.Issue(shapeval.CodeInvalidType, c.typeMsg)}
}

// run evaluates every check in declared order; failures accumulate.
func (c *fieldCore[T]) run(path shapeval.Path, v T) shapeval.Issues {
	var iss shapeval.Issues
	for _, ch := range c.checks {
		if ch.fn(v) {
			continue
		}
		iss = shapeval.AppendIssues(iss, shapeval.Issue{Path: string(path), Code: shapeval.CodePredicate, Message: ch.msg, Rule: ch.rule})
	}
	return iss
}

func (c *fieldCore[T]) project(s *js.Schema) *js.Schema {
	for _, ch := range c.checks {
		if ch.project != nil {
			ch.project(s)
		}
	}
	return s
}

// msgOr returns the first non-empty override, or def.
func msgOr(def string, msg []string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

func formatNumber(n float64) string { return strconv.FormatFloat(n, 'g', -1, 64) }

// ---------------- String ----------------

// StringRule validates string fields. Build it with Str() and the chained
// options; it is sealed by its first Evaluate.
type StringRule struct {
	core     *fieldCore[string]
	notEmpty bool
	emptyMsg string
}

var _ shapeval.Node = (*StringRule)(nil)

// Str returns an optional string rule with no constraints.
func Str() *StringRule {
	return &StringRule{core: newFieldCore[string](shapeval.KindString)}
}

// edit returns the rule to mutate: the receiver while it is being built, a
// copy once it has been sealed.
func (r *StringRule) edit() *StringRule {
	if !r.core.sealed.Load() {
		return r
	}
	return &StringRule{core: r.core.clone(), notEmpty: r.notEmpty, emptyMsg: r.emptyMsg}
}

// Required marks the value as mandatory; msg overrides "Value is required".
func (r *StringRule) Required(msg ...string) *StringRule {
	r = r.edit()
	r.core.setRequired(msg)
	return r
}

// NotEmpty rejects "" with msg (or the default message) and skips every
// other check for it.
func (r *StringRule) NotEmpty(msg ...string) *StringRule {
	r = r.edit()
	r.notEmpty = true
	r.emptyMsg = msgOr(message.T(message.Empty, nil), msg)
	return r
}

// Must adds a predicate. All predicates run, and each failing one reports
// msg (or "Value is invalid").
func (r *StringRule) Must(fn func(string) bool, msg ...string) *StringRule {
	r = r.edit()
	r.core.add(check[string]{fn: fn, msg: msgOr(message.T(message.Predicate, nil), msg)})
	return r
}

// MinLen requires at least n characters (runes).
func (r *StringRule) MinLen(n int, msg ...string) *StringRule {
	r = r.edit()
	def := message.T(message.MinLength, map[string]string{"min": strconv.Itoa(n)})
	r.core.add(check[string]{
		rule:    message.MinLength,
		fn:      func(s string) bool { return utf8.RuneCountInString(s) >= n },
		msg:     msgOr(def, msg),
		project: func(s *js.Schema) { s.MinLength = js.Ptr(n) },
	})
	return r
}

// MaxLen allows at most n characters (runes).
func (r *StringRule) MaxLen(n int, msg ...string) *StringRule {
	r = r.edit()
	def := message.T(message.MaxLength, map[string]string{"max": strconv.Itoa(n)})
	r.core.add(check[string]{
		rule:    message.MaxLength,
		fn:      func(s string) bool { return utf8.RuneCountInString(s) <= n },
		msg:     msgOr(def, msg),
		project: func(s *js.Schema) { s.MaxLength = js.Ptr(n) },
	})
	return r
}

// Pattern requires a match of re.
func (r *StringRule) Pattern(re *regexp.Regexp, msg ...string) *StringRule {
	if re == nil {
		return r
	}
	r = r.edit()
	def := message.T(message.Pattern, map[string]string{"pattern": re.String()})
	r.core.add(check[string]{
		rule:    message.Pattern,
		fn:      re.MatchString,
		msg:     msgOr(def, msg),
		project: func(s *js.Schema) { s.Pattern = re.String() },
	})
	return r
}

// OneOf restricts the value to the given set.
func (r *StringRule) OneOf(values []string, msg ...string) *StringRule {
	r = r.edit()
	allowed := slices.Clone(values)
	def := message.T(message.Enum, map[string]string{"values": strings.Join(allowed, ",")})
	r.core.add(check[string]{
		rule: message.Enum,
		fn:   func(s string) bool { return slices.Contains(allowed, s) },
		msg:  msgOr(def, msg),
		project: func(s *js.Schema) {
			s.Enum = make([]any, len(allowed))
			for i, v := range allowed {
				s.Enum[i] = v
			}
		},
	})
	return r
}

// Evaluate implements shapeval.Node.
func (r *StringRule) Evaluate(path shapeval.Path, v any) (any, shapeval.Issues) {
	r.seal()
	if v == nil {
		return nil, r.core.missing(path)
	}
	s, ok := toString(v)
	if !ok {
		return nil, r.core.mismatch(path)
	}
	if r.notEmpty && s == "" {
		return v, shapeval.Issues{path.Issue(shapeval.CodeEmpty, r.emptyMsg)}
	}
	return v, r.core.run(path, s)
}

// JSONSchema implements shapeval.Node.
func (r *StringRule) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "string"}
	if r.notEmpty {
		s.MinLength = js.Ptr(1)
	}
	return r.core.project(s), nil
}

func (r *StringRule) seal()            { r.core.sealed.Store(true) }
func (r *StringRule) isRequired() bool { return r.core.required }

// ---------------- Number ----------------

// NumberRule validates numeric fields. Every Go integer and float type is
// accepted, as is any value with a Float64() (float64, error) method such
// as json.Number; predicates see the value as float64.
type NumberRule struct {
	core *fieldCore[float64]
}

var _ shapeval.Node = (*NumberRule)(nil)

// Num returns an optional number rule with no constraints.
func Num() *NumberRule {
	return &NumberRule{core: newFieldCore[float64](shapeval.KindNumber)}
}

func (r *NumberRule) edit() *NumberRule {
	if !r.core.sealed.Load() {
		return r
	}
	return &NumberRule{core: r.core.clone()}
}

// Required marks the value as mandatory; msg overrides "Value is required".
func (r *NumberRule) Required(msg ...string) *NumberRule {
	r = r.edit()
	r.core.setRequired(msg)
	return r
}

// Must adds a predicate. All predicates run, and each failing one reports
// msg (or "Value is invalid").
func (r *NumberRule) Must(fn func(float64) bool, msg ...string) *NumberRule {
	r = r.edit()
	r.core.add(check[float64]{fn: fn, msg: msgOr(message.T(message.Predicate, nil), msg)})
	return r
}

// Min requires a value >= n.
func (r *NumberRule) Min(n float64, msg ...string) *NumberRule {
	r = r.edit()
	def := message.T(message.Min, map[string]string{"min": formatNumber(n)})
	r.core.add(check[float64]{
		rule:    message.Min,
		fn:      func(f float64) bool { return f >= n },
		msg:     msgOr(def, msg),
		project: func(s *js.Schema) { s.Minimum = js.Ptr(n) },
	})
	return r
}

// Max requires a value <= n.
func (r *NumberRule) Max(n float64, msg ...string) *NumberRule {
	r = r.edit()
	def := message.T(message.Max, map[string]string{"max": formatNumber(n)})
	r.core.add(check[float64]{
		rule:    message.Max,
		fn:      func(f float64) bool { return f <= n },
		msg:     msgOr(def, msg),
		project: func(s *js.Schema) { s.Maximum = js.Ptr(n) },
	})
	return r
}

// Positive requires a value > 0.
func (r *NumberRule) Positive(msg ...string) *NumberRule {
	r = r.edit()
	r.core.add(check[float64]{
		rule:    message.Positive,
		fn:      func(f float64) bool { return f > 0 },
		msg:     msgOr(message.T(message.Positive, nil), msg),
		project: func(s *js.Schema) { s.ExclusiveMinimum = js.Ptr(0.0) },
	})
	return r
}

// Integer requires a value without a fractional part.
func (r *NumberRule) Integer(msg ...string) *NumberRule {
	r = r.edit()
	r.core.add(check[float64]{
		rule:    message.Integer,
		fn:      func(f float64) bool { return f == math.Trunc(f) && !math.IsInf(f, 0) },
		msg:     msgOr(message.T(message.Integer, nil), msg),
		project: func(s *js.Schema) { s.Type = "integer" },
	})
	return r
}

// Evaluate implements shapeval.Node.
func (r *NumberRule) Evaluate(path shapeval.Path, v any) (any, shapeval.Issues) {
	r.seal()
	if v == nil {
		return nil, r.core.missing(path)
	}
	f, ok := toFloat64(v)
	if !ok {
		return nil, r.core.mismatch(path)
	}
	return v, r.core.run(path, f)
}

// JSONSchema implements shapeval.Node.
func (r *NumberRule) JSONSchema() (*js.Schema, error) {
	return r.core.project(&js.Schema{Type: "number"}), nil
}

func (r *NumberRule) seal()            { r.core.sealed.Store(true) }
func (r *NumberRule) isRequired() bool { return r.core.required }

type float64er interface {
	Float64() (float64, error)
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64er:
		f, err := t.Float64()
		return f, err == nil
	}
	// named types such as time.Duration
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toString accepts string and named string types. Numeric literals such as
// json.Number are numbers, not strings.
func toString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if _, ok := v.(float64er); ok {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func toBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

// ---------------- Bool ----------------

// BoolRule validates boolean fields.
type BoolRule struct {
	core *fieldCore[bool]
}

var _ shapeval.Node = (*BoolRule)(nil)

// Bool returns an optional bool rule with no constraints.
func Bool() *BoolRule {
	return &BoolRule{core: newFieldCore[bool](shapeval.KindBool)}
}

func (r *BoolRule) edit() *BoolRule {
	if !r.core.sealed.Load() {
		return r
	}
	return &BoolRule{core: r.core.clone()}
}

// Required marks the value as mandatory; msg overrides "Value is required".
func (r *BoolRule) Required(msg ...string) *BoolRule {
	r = r.edit()
	r.core.setRequired(msg)
	return r
}

// Must adds a predicate.
func (r *BoolRule) Must(fn func(bool) bool, msg ...string) *BoolRule {
	r = r.edit()
	r.core.add(check[bool]{fn: fn, msg: msgOr(message.T(message.Predicate, nil), msg)})
	return r
}

// Evaluate implements shapeval.Node.
func (r *BoolRule) Evaluate(path shapeval.Path, v any) (any, shapeval.Issues) {
	r.seal()
	if v == nil {
		return nil, r.core.missing(path)
	}
	b, ok := toBool(v)
	if !ok {
		return nil, r.core.mismatch(path)
	}
	return v, r.core.run(path, b)
}

// JSONSchema implements shapeval.Node.
func (r *BoolRule) JSONSchema() (*js.Schema, error) {
	return r.core.project(&js.Schema{Type: "boolean"}), nil
}

func (r *BoolRule) seal()            { r.core.sealed.Store(true) }
func (r *BoolRule) isRequired() bool { return r.core.required }
