package shapeval_test

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeval"
)

func TestValidateFrom_JSON(t *testing.T) {
	res, err := shapeval.ValidateFrom(shapeval.JSONBytes([]byte(`{"id":"1","title":"t","price":2,"extra":1}`)), productSchema())
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, map[string]any{"id": "1", "title": "t", "price": json.Number("2")}, res.Value)

	res, err = shapeval.ValidateFrom(shapeval.JSONReader(strings.NewReader(`{"id":"","title":"t","price":-1}`)), productSchema())
	require.NoError(t, err)
	assert.Equal(t, shapeval.Errors{"id": {"Empty!!"}, "price": {"Positive!!!"}}, res.Errors)
}

func TestValidateFrom_YAML(t *testing.T) {
	doc := "id: '1'\ntitle: t\nprice: 2\ndelivery:\n  address: ''\n"

	res, err := shapeval.ValidateFrom(shapeval.YAMLBytes([]byte(doc)), productSchema())

	require.NoError(t, err)
	assert.Equal(t, shapeval.Errors{
		"delivery.address": {"Value must not be empty"},
		"delivery.price":   {"Value is required"},
	}, res.Errors)
	price, _ := res.Get("price")
	assert.Equal(t, 2, price)
}

func TestValidateFrom_EmptyYAMLIsAbsent(t *testing.T) {
	res, err := shapeval.ValidateFrom(shapeval.YAMLReader(strings.NewReader("")), productSchema())

	require.NoError(t, err)
	assert.Equal(t, shapeval.Errors{"": {"Value is required"}}, res.Errors)
}

func TestValidateFrom_DecodeErrors(t *testing.T) {
	_, err := shapeval.ValidateFrom(shapeval.JSONBytes([]byte(`{"id":`)), productSchema())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeval.ErrDecode))

	_, err = shapeval.ValidateFrom(shapeval.YAMLBytes([]byte("a: [1, 2")), productSchema())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shapeval.ErrDecode))
}

func TestValidateFrom_JSONSingleValue(t *testing.T) {
	for name, doc := range map[string]string{
		"truncated second value": `{"id":"1","title":"t","price":2} {"id":`,
		"second value":           `{"id":"1","title":"t","price":2} {}`,
		"trailing garbage":       `{"id":"1","title":"t","price":2} x`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := shapeval.ValidateFrom(shapeval.JSONBytes([]byte(doc)), productSchema())
			require.Error(t, err)
			assert.True(t, errors.Is(err, shapeval.ErrDecode), "got %v", err)
		})
	}

	res, err := shapeval.ValidateFrom(shapeval.JSONBytes([]byte("{\"id\":\"1\",\"title\":\"t\",\"price\":2}\n\n")), productSchema())
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateFrom_JSONKeepsExactNumbers(t *testing.T) {
	res, err := shapeval.ValidateFrom(shapeval.JSONBytes([]byte(`{"id":"1","title":"t","price":9007199254740993}`)), productSchema())

	require.NoError(t, err)
	require.True(t, res.Valid)
	price, _ := res.Get("price")
	assert.Equal(t, json.Number("9007199254740993"), price)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":9007199254740993`)
}

func TestSourceFormat(t *testing.T) {
	assert.Equal(t, "json", shapeval.JSONBytes(nil).Format())
	assert.Equal(t, "yaml", shapeval.YAMLBytes(nil).Format())
}

func TestNormalizeYAML(t *testing.T) {
	in := map[any]any{
		"a": map[any]any{"b": 1, 2: "dropped"},
		"c": []any{map[any]any{"d": true}},
	}

	out := shapeval.NormalizeYAML(in)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1},
		"c": []any{map[string]any{"d": true}},
	}, out)
	assert.Equal(t, "x", shapeval.NormalizeYAML("x"))
}
