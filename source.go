package shapeval

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source produces the loosely typed value to validate. Objects decode to
// map[string]any, numbers to json.Number (JSON) or int/float64 (YAML).
type Source interface {
	Decode() (any, error)
	// Format names the input format ("json" or "yaml") for diagnostics.
	Format() string
}

// JSONBytes returns a Source decoding a JSON document held in memory. The
// document must contain a single value.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader returns a Source decoding the single JSON value read from r.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

// YAMLBytes returns a Source decoding the first document of a YAML stream.
func YAMLBytes(b []byte) Source { return yamlSource{r: bytes.NewReader(b)} }

// YAMLReader returns a Source decoding the first YAML document read from r.
func YAMLReader(r io.Reader) Source { return yamlSource{r: r} }

type jsonSource struct{ r io.Reader }

func (s jsonSource) Decode() (any, error) {
	dec := json.NewDecoder(s.r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrDecode, err)
	}
	// the document must hold exactly one value
	var extra any
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, fmt.Errorf("%w: json: after top-level value: %w", ErrDecode, err)
	default:
		return nil, fmt.Errorf("%w: json: unexpected data after top-level value", ErrDecode)
	}
}

func (jsonSource) Format() string { return "json" }

type yamlSource struct{ r io.Reader }

func (s yamlSource) Decode() (any, error) {
	var node any
	if err := yaml.NewDecoder(s.r).Decode(&node); err != nil {
		// An empty stream is an absent value.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: yaml: %w", ErrDecode, err)
	}
	return NormalizeYAML(node), nil
}

func (yamlSource) Format() string { return "yaml" }

// ValidateFrom decodes src and validates the decoded value against schema.
// Decode failures are returned as errors wrapping ErrDecode; validation
// failures are reported in the Result only.
func ValidateFrom(src Source, schema Node) (Result, error) {
	v, err := src.Decode()
	if err != nil {
		return Result{}, err
	}
	return Validate(v, schema), nil
}

// NormalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Mapping entries with non-string
// keys are dropped.
func NormalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = NormalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = NormalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = NormalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}
