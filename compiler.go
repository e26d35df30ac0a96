package fluentschema

// Compiler turns an exported JSON Schema document into a Validator. It is the
// narrow contract to the external draft-07 compiler; see jsonschema.NewCompiler
// for the bundled implementation.
type Compiler interface {
	Compile(name string, schema map[string]any) (Validator, error)
}

// Validator reports whether a value conforms to the schema it was compiled
// from. Diagnostics are only meaningful when ok is false.
type Validator interface {
	Validate(v any) (ok bool, diags []Diagnostic)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(name string, schema map[string]any) (Validator, error)

func (f CompilerFunc) Compile(name string, schema map[string]any) (Validator, error) {
	return f(name, schema)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(v any) (bool, []Diagnostic)

func (f ValidatorFunc) Validate(v any) (bool, []Diagnostic) { return f(v) }
