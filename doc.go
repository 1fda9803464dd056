// Package shapeval provides:
//
// - Structural validation of loosely typed values (map[string]any trees decoded from JSON/YAML) against a schema
// - Sanitized output: undeclared keys are dropped, or passed through unchanged for expandable objects
// - A stable error model via Issues (dotted path, code, message) flattened into Errors (path -> messages)
// - Sources for JSON/YAML input and mapping of a sanitized value onto Go structs
//
// Design policy:
// - Keep only the public model in the root package; builders live under dsl/, schema documents under schemafile/.
// - Schema nodes are immutable once evaluated and may be shared across goroutines.
// - Validation never stops early: one call reports every violation.
//
// Typical usage:
//
//	s := dsl.Obj(dsl.Fields{
//	    "id":    dsl.Str().Required().NotEmpty("Empty!!"),
//	    "price": dsl.Num().Required().Must(func(p float64) bool { return p > 0 }, "Positive!!!"),
//	})
//	res := shapeval.Validate(input, s)
//	if !res.Valid {
//	    _ = res.Errors["price"] // []string{"Positive!!!"}
//	}
//	res, err := shapeval.ValidateFrom(shapeval.JSONBytes(data), s)
package shapeval
