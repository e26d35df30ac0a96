package jsonschema

import (
	"bytes"
	"io"

	j "github.com/goccy/go-json"
)

// Draft07 is the schema-version marker written under "$schema" at the root
// of every exported document.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// SchemaKey is the root key carrying the schema-version marker.
const SchemaKey = "$schema"

// Document is an exported JSON Schema document: plain JSON-compatible values
// (map[string]any, []any, []string, string, bool, int64, float64, nil).
type Document map[string]any

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneMap(d))
}

// Clone returns a deep copy of a JSON-compatible value. Maps and slices are
// copied; scalars are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// Freeze converts an arbitrary Go value into an independent JSON-compatible
// value by encoding and decoding it. Numbers become int64 when they are
// integral and fit, float64 otherwise. Later mutation of v never reaches the
// returned value.
func Freeze(v any) (any, error) {
	raw, err := decodeNumbers(v)
	if err != nil {
		return nil, err
	}
	return normalizeNumbers(raw), nil
}

// DecodeJSON decodes JSON bytes into JSON-compatible values with the same
// number normalization as Freeze.
func DecodeJSON(data []byte) (any, error) {
	raw, err := decodeReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return normalizeNumbers(raw), nil
}

// decodeNumbers round-trips v keeping numbers as json.Number.
func decodeNumbers(v any) (any, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeReader(bytes.NewReader(b))
}

func decodeReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			t[k] = normalizeNumbers(vv)
		}
		return t
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case j.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
