// Package dsl provides the fluent schema node model for fluentschema.
//
// Overview
//   - Factories: String()/Media()/Number()/Integer()/Boolean() for scalars, Object()/Array()/Map() for containers.
//   - Metadata: Title/Desc/Examples may be repeated (copy and replace); Default/ReadOnly/Optional/Min/Max/... are set once.
//   - Locking: Lock() freezes a node; attaching a node to a container (Prop/PatternProps/Items/Value/Key) locks it.
//   - Copy(): an unlocked, independent node with a deep copy of the property bag.
//   - Export: Export(Visitor) dispatches per kind; JSONSchema() uses SchemaExporter and adds "$schema".
//   - Compile(name, compiler): locks, exports and wraps the compiler's validator (see jsonschema.NewCompiler).
//
// Chaining rules
//
// Every mutating call returns the node that now holds the change. It is the
// receiver for the first write to an unlocked node, and a copy when the node
// is locked or an overridable property is replaced. Always keep the returned
// value:
//
//	s := dsl.String().Min(1)
//	s = s.Desc("display name") // s may now be a different node
//
// A failing call never mutates its receiver. It returns a node carrying the
// error; further calls on it are ignored, and Err, Export, JSONSchema, Compile
// and any container attach report the error:
//
//	s := dsl.String().Min(1).Min(2)
//	var pe *fluentschema.PropertyAlreadySetError
//	errors.As(s.Err(), &pe) // true
//
// Required by default
//
// Properties attached with Prop are listed in "required" unless the child was
// marked Optional. Objects export "additionalProperties": false once they have
// a property, unless AllowAdditional was called; an empty object accepts
// anything.
//
// Maps
//
// Map() is rendered as an object with one anchored pattern property:
//
//	dsl.Map().KeyPattern("[a-z]+").Value(dsl.Integer())
//	// {"type":"object","patternProperties":{"^[a-z]+$":{"type":"integer"}},"additionalProperties":false}
//
// Concurrency
//
// Building a tree is confined to one goroutine. Locked trees (including
// Common) are read-only and may be shared.
package dsl
