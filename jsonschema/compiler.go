package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"

	j "github.com/goccy/go-json"
	jsv "github.com/santhosh-tekuri/jsonschema/v5"

	fluentschema "github.com/reoring/fluentschema"
)

// CompilerOptions controls the bundled draft-07 compiler.
type CompilerOptions struct {
	// AssertFormat enforces "format" keywords (email, date-time, uuid, ...).
	AssertFormat bool
	// AssertContent enforces contentEncoding/contentMediaType.
	AssertContent bool
}

// NewCompiler returns a fluentschema.Compiler backed by
// github.com/santhosh-tekuri/jsonschema/v5 in draft-07 mode. Construct it once
// at the composition root and pass it to Compile.
func NewCompiler(opts CompilerOptions) fluentschema.Compiler {
	return &draft07Compiler{opts: opts}
}

type draft07Compiler struct {
	opts CompilerOptions
}

func (c *draft07Compiler) Compile(name string, schema map[string]any) (fluentschema.Validator, error) {
	b, err := j.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: encode %s: %w", name, err)
	}
	jc := jsv.NewCompiler()
	jc.Draft = jsv.Draft7
	jc.AssertFormat = c.opts.AssertFormat
	jc.AssertContent = c.opts.AssertContent
	loc := "mem://fluentschema/" + url.PathEscape(name) + ".json"
	if err := jc.AddResource(loc, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("jsonschema: add %s: %w", name, err)
	}
	sch, err := jc.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: compile %s: %w", name, err)
	}
	return &draft07Validator{schema: sch}, nil
}

type draft07Validator struct {
	schema *jsv.Schema
}

func (v *draft07Validator) Validate(value any) (bool, []fluentschema.Diagnostic) {
	// the validator only understands decoded JSON (json.Number, []any, map[string]any)
	data, err := decodeNumbers(value)
	if err != nil {
		return false, []fluentschema.Diagnostic{{InstancePath: "", Message: "value is not JSON-encodable: " + err.Error()}}
	}
	if err := v.schema.Validate(data); err != nil {
		var ve *jsv.ValidationError
		if errors.As(err, &ve) {
			return false, flatten(ve, nil)
		}
		return false, []fluentschema.Diagnostic{{Message: err.Error()}}
	}
	return true, nil
}

// flatten collects the leaf causes of a validation error tree.
func flatten(ve *jsv.ValidationError, out []fluentschema.Diagnostic) []fluentschema.Diagnostic {
	if len(ve.Causes) == 0 {
		return append(out, fluentschema.Diagnostic{
			InstancePath: ve.InstanceLocation,
			SchemaPath:   ve.KeywordLocation,
			Message:      ve.Message,
		})
	}
	for _, c := range ve.Causes {
		out = flatten(c, out)
	}
	return out
}
