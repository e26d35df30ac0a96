// Package compat lets dsl nodes stand in wherever a fluent-schema style
// builder is expected: anything exposing IsFluentSchema and ValueOf.
package compat

import (
	j "github.com/goccy/go-json"

	fluentschema "github.com/reoring/fluentschema"
	"github.com/reoring/fluentschema/dsl"
	js "github.com/reoring/fluentschema/jsonschema"
)

// FluentSchema is the interop contract: a marker method and the exported
// JSON Schema document.
type FluentSchema interface {
	IsFluentSchema() bool
	ValueOf() (map[string]any, error)
}

// Schema adapts a dsl node to FluentSchema.
type Schema struct {
	n dsl.Node
}

var (
	_ FluentSchema = (*Schema)(nil)
	_ j.Marshaler  = (*Schema)(nil)
)

// Wrap returns the adapter for n. The node is not locked.
func Wrap(n dsl.Node) *Schema { return &Schema{n: n} }

// Node returns the wrapped node.
func (s *Schema) Node() dsl.Node { return s.n }

// IsFluentSchema always reports true.
func (s *Schema) IsFluentSchema() bool { return true }

// ValueOf returns a fresh JSON Schema document for the wrapped node.
func (s *Schema) ValueOf() (map[string]any, error) {
	if s == nil || s.n == nil {
		return nil, &fluentschema.InvalidArgumentError{Op: "valueOf", Reason: "no schema wrapped"}
	}
	doc, err := s.n.JSONSchema()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// MarshalJSON encodes the document returned by ValueOf.
func (s *Schema) MarshalJSON() ([]byte, error) {
	v, err := s.ValueOf()
	if err != nil {
		return nil, err
	}
	return j.Marshal(v)
}

// IsFluentSchema reports whether v implements FluentSchema and claims to be
// one.
func IsFluentSchema(v any) bool {
	fs, ok := v.(FluentSchema)
	return ok && fs.IsFluentSchema()
}

// ValueOf resolves v to a JSON Schema document. It accepts FluentSchema
// values, dsl nodes and plain documents (returned as a deep copy).
func ValueOf(v any) (map[string]any, error) {
	switch t := v.(type) {
	case FluentSchema:
		if !t.IsFluentSchema() {
			break
		}
		return t.ValueOf()
	case dsl.Node:
		return Wrap(t).ValueOf()
	case js.Document:
		return t.Clone(), nil
	case map[string]any:
		return js.Clone(t).(map[string]any), nil
	}
	return nil, &fluentschema.InvalidArgumentError{Op: "valueOf", Reason: "not a schema"}
}
