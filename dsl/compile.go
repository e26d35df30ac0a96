package dsl

import (
	"fmt"
	"strings"

	fluentschema "github.com/reoring/fluentschema"
	js "github.com/reoring/fluentschema/jsonschema"
)

// Compiled is a node compiled into a validating function.
type Compiled struct {
	name      string
	schema    js.Document
	validator fluentschema.Validator
}

// Compile locks the node, exports it and hands the document to c. The node
// cannot be mutated afterwards; use Copy to derive a new one.
func (b *base[N]) Compile(name string, c fluentschema.Compiler) (*Compiled, error) {
	if b.n.err != nil {
		return nil, b.n.err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &fluentschema.MissingNameError{}
	}
	if c == nil {
		return nil, &fluentschema.InvalidArgumentError{Op: "compile", Reason: "compiler is nil"}
	}
	if err := b.n.lock(); err != nil {
		return nil, err
	}
	doc, err := b.JSONSchema()
	if err != nil {
		return nil, err
	}
	v, err := c.Compile(name, doc.Clone())
	if err != nil {
		return nil, fmt.Errorf("dsl: compile %s: %w", name, err)
	}
	return &Compiled{name: name, schema: doc, validator: v}, nil
}

// Name returns the name given to Compile.
func (c *Compiled) Name() string { return c.name }

// Schema returns a copy of the exported document the validator was built from.
func (c *Compiled) Schema() js.Document { return c.schema.Clone() }

// Validate returns a *fluentschema.ValidationError when v does not conform.
func (c *Compiled) Validate(v any) error {
	ok, diags := c.validator.Validate(v)
	if ok {
		return nil
	}
	return &fluentschema.ValidationError{
		Name:        c.name,
		Value:       v,
		Diagnostics: diags,
		Schema:      c.schema.Clone(),
	}
}

// Func returns Validate as a plain function value.
func (c *Compiled) Func() func(v any) error { return c.Validate }
