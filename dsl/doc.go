// Package dsl provides the schema builders for shapeval.
//
// Overview
//   - Field rules: Str(), Num(), Bool() with chained Required/NotEmpty/Must and
//     named checks (MinLen/MaxLen/Pattern/OneOf, Min/Max/Positive/Integer).
//   - Object rules: Obj(fields, missingMsg), ObjOptional(fields),
//     ExpandableObject(fields), OptionalExpandableObject(fields).
//   - Every rule implements shapeval.Node and can be nested in Fields.
//
// Semantics
//   - An absent value (missing key or nil) reports "Value is required" only
//     when the rule is required. Obj and ExpandableObject are required;
//     ObjOptional and OptionalExpandableObject are not.
//   - A value of the wrong kind reports one invalid_type issue and nothing else.
//   - NotEmpty short-circuits: "" reports the empty message only.
//   - All other checks run in declared order and every failure is reported.
//   - Obj/ObjOptional drop undeclared keys; the expandable variants keep them
//     as-is (same reference, not copied).
//
// Sealing
//
// A rule is sealed by its first Evaluate (an object seals its whole subtree).
// Builder calls on a sealed rule return a modified copy and leave the sealed
// rule untouched, so a schema can be shared by concurrent validations.
//
// Example
//
//	product := dsl.Obj(dsl.Fields{
//	    "id":    dsl.Str().Required().NotEmpty("Empty!!"),
//	    "title": dsl.Str().Required().MaxLen(9),
//	    "price": dsl.Num().Required().Must(func(p float64) bool { return p > 0 }, "Positive!!!"),
//	    "delivery": dsl.ObjOptional(dsl.Fields{
//	        "price":   dsl.Num().Required().Positive(),
//	        "address": dsl.Str().Required().NotEmpty(),
//	    }),
//	})
//	res := shapeval.Validate(map[string]any{"id": "", "title": "test", "price": -23}, product)
//	// res.Errors == shapeval.Errors{"id": {"Empty!!"}, "price": {"Positive!!!"}}
package dsl
