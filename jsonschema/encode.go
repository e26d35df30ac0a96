package jsonschema

import (
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON renders v as indented JSON with sorted object keys.
func MarshalJSON(v any) ([]byte, error) {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// MarshalYAML renders v as a YAML document.
func MarshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}
