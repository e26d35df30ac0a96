// Package fluentschema provides:
//
// - A fluent, copy-on-write builder for a restricted subset of JSON Schema (draft-07) under dsl/
// - Export of a node tree to JSON Schema documents and to a flat registry of named shapes (shape/)
// - A stable error model that separates schema usage errors from invalid data (ValidationError)
// - A thin compile boundary around an external validator compiler (Compiler/Validator)
//
// Design policy:
// - Keep only the error model and collaborator contracts in the root package.
// - Place the node model under dsl/, document helpers and the default compiler under jsonschema/,
//   the shape exporter under shape/ and the CLI under cmd/fluentschema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	user := dsl.Object().
//	    Prop("name", dsl.String().Min(1)).
//	    Prop("age", dsl.Integer().AsInt32().Optional())
//	doc, err := user.JSONSchema()
//
//	compiled, err := user.Compile("User", jsonschema.NewCompiler(jsonschema.CompilerOptions{}))
//	err = compiled.Validate(map[string]any{"name": "alice"})
//	if ve, ok := fluentschema.AsValidationError(err); ok {
//	    _ = ve.Diagnostics
//	}
package fluentschema
