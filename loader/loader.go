// Package loader builds dsl nodes from declarative YAML or JSON definitions.
//
// A definition is a mapping with a "type" key and type-specific keys. Every
// key is applied through the fluent API, so definitions obey the same rules
// as Go code (set-once properties, required-by-default members, safe integer
// ranges):
//
//	type: object
//	title: User
//	properties:
//	  name: {type: string, min: 1}
//	  age:  {type: integer, range: int32, optional: true}
//	  tags: {type: array, items: {type: string}, unique: true}
//
// Duplicate and unknown keys are rejected with their positions.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/fluentschema/dsl"
)

var (
	// ErrUnknownKey reports a key the definition's type does not accept.
	ErrUnknownKey = errors.New("unknown key")
	// ErrUnknownType reports a missing or unsupported "type".
	ErrUnknownType = errors.New("unknown type")
	// ErrEmpty reports input without a definition.
	ErrEmpty = errors.New("empty definition")
)

// DefinitionError locates a failure inside a definition. Path is a JSON
// Pointer to the offending key; Err may be a fluentschema construction
// error.
type DefinitionError struct {
	Path string
	Line int
	Col  int
	Err  error
}

func (e *DefinitionError) Error() string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("loader: %s (%d:%d): %v", path, e.Line, e.Col, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// Load parses a single definition document. JSON input is accepted as YAML.
func Load(data []byte) (dsl.Node, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("loader: %w", err)
	}
	doc := deref(&root)
	if doc == nil || (doc.Kind == yaml.ScalarNode && doc.ShortTag() == "!!null") {
		return nil, ErrEmpty
	}
	return build("", doc)
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (dsl.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return Load(data)
}

// def is a parsed definition mapping.
type def struct {
	path   string
	node   *yaml.Node
	order  []string
	keys   map[string]*yaml.Node
	values map[string]*yaml.Node
}

func parseDef(path string, n *yaml.Node) (*def, error) {
	es, err := mappingEntries(n)
	if err != nil {
		var dk *DuplicateKeyError
		if errors.As(err, &dk) {
			return nil, err
		}
		return nil, &DefinitionError{Path: path, Line: n.Line, Col: n.Column, Err: err}
	}
	d := &def{path: path, node: n, keys: map[string]*yaml.Node{}, values: map[string]*yaml.Node{}}
	for _, e := range es {
		d.order = append(d.order, e.key.Value)
		d.keys[e.key.Value] = e.key
		d.values[e.key.Value] = e.value
	}
	return d, nil
}

func (d *def) errAt(key string, err error) error {
	var de *DefinitionError
	var dk *DuplicateKeyError
	if errors.As(err, &de) || errors.As(err, &dk) {
		return err
	}
	if k, ok := d.keys[key]; ok {
		return &DefinitionError{Path: pointer(d.path, key), Line: k.Line, Col: k.Column, Err: err}
	}
	return &DefinitionError{Path: d.path, Line: d.node.Line, Col: d.node.Column, Err: err}
}

// checkKeys rejects keys outside allowed.
func (d *def) checkKeys(allowed map[string]bool) error {
	for _, k := range d.order {
		if !commonKeys[k] && !allowed[k] {
			return d.errAt(k, fmt.Errorf("%w %q", ErrUnknownKey, k))
		}
	}
	return nil
}

func (d *def) typeName(fallback string) (string, error) {
	v, ok := d.values["type"]
	if !ok {
		if fallback != "" {
			return fallback, nil
		}
		return "", d.errAt("", fmt.Errorf("%w: missing \"type\"", ErrUnknownType))
	}
	t, err := scalarString(v)
	if err != nil {
		return "", d.errAt("type", err)
	}
	return t, nil
}

// pointer appends an escaped JSON Pointer token to path.
func pointer(path, token string) string {
	return path + "/" + strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}

func build(path string, n *yaml.Node) (dsl.Node, error) {
	d, err := parseDef(path, n)
	if err != nil {
		return nil, err
	}
	t, err := d.typeName("")
	if err != nil {
		return nil, err
	}
	b, ok := builders[t]
	if !ok {
		return nil, d.errAt("type", fmt.Errorf("%w %q", ErrUnknownType, t))
	}
	if err := d.checkKeys(b.keys); err != nil {
		return nil, err
	}
	return b.build(d)
}
