package dsl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeval"
	g "github.com/reoring/shapeval/dsl"
	js "github.com/reoring/shapeval/jsonschema"
)

func TestSeal_BuilderMutatesUntilFirstUse(t *testing.T) {
	r := g.Str()
	assert.Same(t, r, r.Required())
	assert.Same(t, r, r.MinLen(2))

	n := g.Num()
	assert.Same(t, n, n.Required().Min(0))

	o := g.Obj(g.Fields{})
	assert.Same(t, o, o.Message("x"))
}

func TestSeal_FieldRuleCopiesAfterUse(t *testing.T) {
	r := g.Str().Required()
	shapeval.Validate("ab", r)

	r2 := r.MinLen(3)
	require.NotSame(t, r, r2)

	// the copy is still being built
	assert.Same(t, r2, r2.MaxLen(5))

	assert.True(t, shapeval.Validate("ab", r).Valid)
	assert.False(t, shapeval.Validate("ab", r2).Valid)

	// r2 is now in use as well
	r3 := r2.MaxLen(1)
	require.NotSame(t, r2, r3)
	assert.True(t, shapeval.Validate("abcd", r2).Valid)
	assert.False(t, shapeval.Validate("abcd", r3).Valid)
}

func TestSeal_ObjectSealsSubtree(t *testing.T) {
	child := g.Str()
	o := g.ObjOptional(g.Fields{"a": child})

	// the object is absent, so child is never evaluated directly
	shapeval.Validate(nil, o)

	child2 := child.Required()
	require.NotSame(t, child, child2)
	assert.True(t, shapeval.Validate(map[string]any{}, o).Valid)

	o2 := o.Must(func(map[string]any) bool { return false })
	require.NotSame(t, o, o2)
	assert.True(t, shapeval.Validate(map[string]any{}, o).Valid)
	assert.False(t, shapeval.Validate(map[string]any{}, o2).Valid)
}

func TestSeal_ConcurrentValidate(t *testing.T) {
	s := optionalDelivery()
	inputs := []map[string]any{
		{"id": 1, "title": "ok"},
		{"id": -1, "title": "way too long title"},
		{"id": 1, "title": "ok", "delivery": map[string]any{"address": ""}},
	}
	want := make([]shapeval.Result, len(inputs))
	for i, in := range inputs {
		want[i] = shapeval.Validate(in, s)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, in := range inputs {
				got := shapeval.Validate(in, s)
				if fmt.Sprint(got.Errors) != fmt.Sprint(want[i].Errors) {
					errs <- fmt.Errorf("input %d: got %v want %v", i, got.Errors, want[i].Errors)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestJSONSchema_Object(t *testing.T) {
	s := g.Obj(g.Fields{
		"id":    g.Str().Required().NotEmpty().MaxLen(10),
		"kind":  g.Str().OneOf([]string{"a", "b"}),
		"price": g.Num().Required().Positive(),
		"qty":   g.Num().Integer().Min(1).Max(99),
		"gift":  g.Bool(),
		"delivery": g.ObjOptional(g.Fields{
			"address": g.Str().Required(),
		}),
		"meta": g.ExpandableObject(g.Fields{}),
	})

	sch, err := s.JSONSchema()
	require.NoError(t, err)

	assert.Equal(t, "object", sch.Type)
	assert.Equal(t, []string{"id", "meta", "price"}, sch.Required)
	assert.Equal(t, true, sch.AdditionalProperties)
	assert.Equal(t, &js.Schema{Type: "string", MinLength: js.Ptr(1), MaxLength: js.Ptr(10)}, sch.Properties["id"])
	assert.Equal(t, []any{"a", "b"}, sch.Properties["kind"].Enum)
	assert.Equal(t, js.Ptr(0.0), sch.Properties["price"].ExclusiveMinimum)
	assert.Equal(t, "integer", sch.Properties["qty"].Type)
	assert.Equal(t, js.Ptr(1.0), sch.Properties["qty"].Minimum)
	assert.Equal(t, js.Ptr(99.0), sch.Properties["qty"].Maximum)
	assert.Equal(t, "boolean", sch.Properties["gift"].Type)
	assert.Equal(t, []string{"address"}, sch.Properties["delivery"].Required)
}

func TestJSONSchema_Export(t *testing.T) {
	sch, err := shapeval.ExportJSONSchema(g.Str())
	require.NoError(t, err)
	assert.Equal(t, js.Draft, sch.Schema)
	assert.Equal(t, "string", sch.Type)
}
