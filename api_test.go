package shapeval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeval"
	g "github.com/reoring/shapeval/dsl"
)

func productSchema() shapeval.Node {
	return g.Obj(g.Fields{
		"id":    g.Str().Required().NotEmpty("Empty!!"),
		"title": g.Str().Required().Must(func(v string) bool { return len(v) < 10 }),
		"price": g.Num().Required().Must(func(p float64) bool { return p > 0 }, "Positive!!!"),
		"delivery": g.ObjOptional(g.Fields{
			"price":   g.Num().Required().Positive(),
			"address": g.Str().Required().NotEmpty(),
		}),
	})
}

func TestValidate_ScenarioA(t *testing.T) {
	res := shapeval.Validate(map[string]any{"id": "", "title": "test", "price": -23}, productSchema())

	require.False(t, res.Valid)
	assert.Equal(t, shapeval.Errors{"id": {"Empty!!"}, "price": {"Positive!!!"}}, res.Errors)
	assert.Equal(t, res.Errors, res.Issues.Errors())
	assert.Equal(t, res.Issues, res.Err())
}

func TestValidate_ValidHasNoErrors(t *testing.T) {
	res := shapeval.Validate(map[string]any{"id": "1", "title": "test", "price": 1}, productSchema())

	require.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidate_FieldRuleAtRoot(t *testing.T) {
	res := shapeval.Validate(nil, g.Str().Required())
	assert.Equal(t, shapeval.Errors{"": {"Value is required"}}, res.Errors)

	res = shapeval.Validate("x", g.Str().Required())
	assert.True(t, res.Valid)
	assert.Equal(t, "x", res.Value)
	_, ok := res.Get("x")
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	assert.True(t, shapeval.Is(map[string]any{"id": "1", "title": "t", "price": 2}, productSchema()))
	assert.False(t, shapeval.Is(map[string]any{}, productSchema()))
}
