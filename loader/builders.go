package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	fluentschema "github.com/reoring/fluentschema"
	"github.com/reoring/fluentschema/dsl"
)

type builder struct {
	keys  map[string]bool
	build func(d *def) (dsl.Node, error)
}

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// commonKeys are accepted by every type.
var commonKeys = keySet("type", "title", "description", "examples", "default", "readOnly", "optional", "location")

var (
	stringKeys = keySet("min", "max", "pattern", "format", "enum")
	mediaKeys  = keySet("min", "max", "pattern", "format", "enum", "contentMediaType", "contentEncoding")
)

// builders is filled in init: the object builder recurses through build,
// which reads this table.
var builders map[string]builder

func init() {
	builders = map[string]builder{
		"string": {stringKeys, func(d *def) (dsl.Node, error) {
			s, err := buildString(d)
			if err != nil {
				return nil, err
			}
			return s, nil
		}},
		"media":   {mediaKeys, buildMedia},
		"number":  {keySet("min", "max", "enum", "float"), buildNumber},
		"integer": {keySet("min", "max", "enum", "range"), buildInteger},
		"boolean": {keySet(), buildBoolean},
		"object":  {keySet("properties", "patternProperties", "additionalProperties", "min", "max"), buildObject},
		"array":   {keySet("items", "min", "max", "unique"), buildArray},
		"map":     {keySet("key", "value", "min", "max"), buildMap},
	}
}

// metaNode is the metadata vocabulary shared by every facade.
type metaNode[N any] interface {
	dsl.Node
	Title(string) N
	Desc(...string) N
	Examples(...any) N
	Default(any) N
	ReadOnly() N
	Optional() N
	Location(string) N
}

type stringish[N any] interface {
	metaNode[N]
	Min(int) N
	Max(int) N
	Pattern(string) N
	Format(string) N
	Enum(...string) N
}

// step applies one definition key to a node.
type step[N any] struct {
	key string
	fn  func(N, *yaml.Node) (N, error)
}

// run applies the steps whose keys are present, in step order, and reports
// the first failure at its key.
func run[N dsl.Node](d *def, n N, steps []step[N]) (N, error) {
	for _, s := range steps {
		v, ok := d.values[s.key]
		if !ok {
			continue
		}
		out, err := s.fn(n, v)
		if err == nil {
			err = out.Err()
		}
		if err != nil {
			return n, d.errAt(s.key, err)
		}
		n = out
	}
	return n, nil
}

func withString[N any](set func(N, string) N) func(N, *yaml.Node) (N, error) {
	return func(n N, v *yaml.Node) (N, error) {
		s, err := scalarString(v)
		if err != nil {
			return n, err
		}
		return set(n, s), nil
	}
}

// withFlag calls set when the value is true; false leaves the node as is.
func withFlag[N any](set func(N) N) func(N, *yaml.Node) (N, error) {
	return func(n N, v *yaml.Node) (N, error) {
		b, err := scalarBool(v)
		if err != nil || !b {
			return n, err
		}
		return set(n), nil
	}
}

func withCount[N any](set func(N, int) N) func(N, *yaml.Node) (N, error) {
	return func(n N, v *yaml.Node) (N, error) {
		i, err := scalarInt(v)
		if err != nil {
			return n, err
		}
		return set(n, int(i)), nil
	}
}

// metaSteps run last so Optional applies to the finished node.
func metaSteps[N metaNode[N]]() []step[N] {
	return []step[N]{
		{"title", withString(func(n N, s string) N { return n.Title(s) })},
		{"description", func(n N, v *yaml.Node) (N, error) {
			parts, err := stringList(v)
			if err != nil {
				return n, err
			}
			return n.Desc(parts...), nil
		}},
		{"examples", func(n N, v *yaml.Node) (N, error) {
			items, err := sequence(v)
			if err != nil {
				return n, err
			}
			vals := make([]any, 0, len(items))
			for _, it := range items {
				x, err := toValue(it)
				if err != nil {
					return n, err
				}
				vals = append(vals, x)
			}
			return n.Examples(vals...), nil
		}},
		{"default", func(n N, v *yaml.Node) (N, error) {
			x, err := toValue(v)
			if err != nil {
				return n, err
			}
			return n.Default(x), nil
		}},
		{"readOnly", withFlag(func(n N) N { return n.ReadOnly() })},
		{"location", withString(func(n N, s string) N { return n.Location(s) })},
		{"optional", withFlag(func(n N) N { return n.Optional() })},
	}
}

func stringSteps[N stringish[N]]() []step[N] {
	return []step[N]{
		{"min", withCount(func(n N, i int) N { return n.Min(i) })},
		{"max", withCount(func(n N, i int) N { return n.Max(i) })},
		{"pattern", withString(func(n N, s string) N { return n.Pattern(s) })},
		{"format", withString(func(n N, s string) N { return n.Format(s) })},
		{"enum", func(n N, v *yaml.Node) (N, error) {
			vals, err := stringList(v)
			if err != nil {
				return n, err
			}
			return n.Enum(vals...), nil
		}},
	}
}

func finish[N metaNode[N]](d *def, n N, steps []step[N]) (dsl.Node, error) {
	n, err := run(d, n, steps)
	if err != nil {
		return nil, err
	}
	n, err = run(d, n, metaSteps[N]())
	if err != nil {
		return nil, err
	}
	return n, nil
}

func buildString(d *def) (*dsl.StringNode, error) {
	s, err := run(d, dsl.String(), stringSteps[*dsl.StringNode]())
	if err != nil {
		return nil, err
	}
	return run(d, s, metaSteps[*dsl.StringNode]())
}

func buildMedia(d *def) (dsl.Node, error) {
	steps := append(stringSteps[*dsl.MediaNode](),
		step[*dsl.MediaNode]{"contentMediaType", withString((*dsl.MediaNode).ContentMediaType)},
		step[*dsl.MediaNode]{"contentEncoding", withString(func(n *dsl.MediaNode, s string) *dsl.MediaNode {
			return n.ContentEncoding(dsl.Encoding(s))
		})},
	)
	return finish(d, dsl.Media(), steps)
}

func buildNumber(d *def) (dsl.Node, error) {
	bound := func(set func(*dsl.NumberNode, float64) *dsl.NumberNode) func(*dsl.NumberNode, *yaml.Node) (*dsl.NumberNode, error) {
		return func(n *dsl.NumberNode, v *yaml.Node) (*dsl.NumberNode, error) {
			f, err := scalarFloat(v)
			if err != nil {
				return n, err
			}
			return set(n, f), nil
		}
	}
	return finish(d, dsl.Number(), []step[*dsl.NumberNode]{
		{"min", bound((*dsl.NumberNode).Min)},
		{"max", bound((*dsl.NumberNode).Max)},
		{"enum", func(n *dsl.NumberNode, v *yaml.Node) (*dsl.NumberNode, error) {
			items, err := sequence(v)
			if err != nil {
				return n, err
			}
			vals := make([]float64, 0, len(items))
			for _, it := range items {
				f, err := scalarFloat(it)
				if err != nil {
					return n, err
				}
				vals = append(vals, f)
			}
			return n.Enum(vals...), nil
		}},
		{"float", withFlag((*dsl.NumberNode).AsFloat)},
	})
}

func buildInteger(d *def) (dsl.Node, error) {
	bound := func(set func(*dsl.IntegerNode, int64) *dsl.IntegerNode) func(*dsl.IntegerNode, *yaml.Node) (*dsl.IntegerNode, error) {
		return func(n *dsl.IntegerNode, v *yaml.Node) (*dsl.IntegerNode, error) {
			i, err := scalarInt(v)
			if err != nil {
				return n, err
			}
			return set(n, i), nil
		}
	}
	// min and max run before range so explicit bounds are checked against it
	return finish(d, dsl.Integer(), []step[*dsl.IntegerNode]{
		{"min", bound((*dsl.IntegerNode).Min)},
		{"max", bound((*dsl.IntegerNode).Max)},
		{"enum", func(n *dsl.IntegerNode, v *yaml.Node) (*dsl.IntegerNode, error) {
			items, err := sequence(v)
			if err != nil {
				return n, err
			}
			vals := make([]int64, 0, len(items))
			for _, it := range items {
				i, err := scalarInt(it)
				if err != nil {
					return n, err
				}
				vals = append(vals, i)
			}
			return n.Enum(vals...), nil
		}},
		{"range", func(n *dsl.IntegerNode, v *yaml.Node) (*dsl.IntegerNode, error) {
			r, err := scalarString(v)
			if err != nil {
				return n, err
			}
			switch r {
			case "int32":
				return n.AsInt32(), nil
			case "int64":
				return n.AsInt64(), nil
			}
			return n, fmt.Errorf("range must be int32 or int64, got %q", r)
		}},
	})
}

func buildBoolean(d *def) (dsl.Node, error) {
	return finish(d, dsl.Boolean(), nil)
}

func buildObject(d *def) (dsl.Node, error) {
	o := dsl.Object()
	if v, ok := d.values["properties"]; ok {
		es, err := mappingEntries(v)
		if err != nil {
			return nil, d.errAt("properties", err)
		}
		for _, e := range es {
			path := pointer(pointer(d.path, "properties"), e.key.Value)
			child, err := build(path, e.value)
			if err != nil {
				return nil, err
			}
			if o = o.Prop(e.key.Value, child); o.Err() != nil {
				return nil, &DefinitionError{Path: path, Line: e.key.Line, Col: e.key.Column, Err: o.Err()}
			}
		}
	}
	if v, ok := d.values["patternProperties"]; ok {
		es, err := mappingEntries(v)
		if err != nil {
			return nil, d.errAt("patternProperties", err)
		}
		for _, e := range es {
			path := pointer(pointer(d.path, "patternProperties"), e.key.Value)
			child, err := build(path, e.value)
			if err != nil {
				return nil, err
			}
			if o = o.PatternProps(map[string]dsl.Node{e.key.Value: child}); o.Err() != nil {
				return nil, &DefinitionError{Path: path, Line: e.key.Line, Col: e.key.Column, Err: o.Err()}
			}
		}
	}
	return finish(d, o, []step[*dsl.ObjectNode]{
		{"additionalProperties", withFlag((*dsl.ObjectNode).AllowAdditional)},
		{"min", withCount((*dsl.ObjectNode).Min)},
		{"max", withCount((*dsl.ObjectNode).Max)},
	})
}

func buildArray(d *def) (dsl.Node, error) {
	return finish(d, dsl.Array(), []step[*dsl.ArrayNode]{
		{"items", func(n *dsl.ArrayNode, v *yaml.Node) (*dsl.ArrayNode, error) {
			child, err := build(pointer(d.path, "items"), v)
			if err != nil {
				return n, err
			}
			return n.Items(child), nil
		}},
		{"min", withCount((*dsl.ArrayNode).Min)},
		{"max", withCount((*dsl.ArrayNode).Max)},
		{"unique", withFlag((*dsl.ArrayNode).Unique)},
	})
}

func buildMap(d *def) (dsl.Node, error) {
	if _, ok := d.values["value"]; !ok {
		return nil, d.errAt("", &fluentschema.MissingValueSchemaError{})
	}
	return finish(d, dsl.Map(), []step[*dsl.MapNode]{
		{"key", func(n *dsl.MapNode, v *yaml.Node) (*dsl.MapNode, error) {
			if v.Kind == yaml.ScalarNode {
				p, err := scalarString(v)
				if err != nil {
					return n, err
				}
				return n.KeyPattern(p), nil
			}
			key, err := buildKey(pointer(d.path, "key"), v)
			if err != nil {
				return n, err
			}
			return n.Key(key), nil
		}},
		{"value", func(n *dsl.MapNode, v *yaml.Node) (*dsl.MapNode, error) {
			child, err := build(pointer(d.path, "value"), v)
			if err != nil {
				return n, err
			}
			return n.Value(child), nil
		}},
		{"min", withCount((*dsl.MapNode).Min)},
		{"max", withCount((*dsl.MapNode).Max)},
	})
}

// buildKey reads a map key definition; "type" defaults to string and may
// not be anything else.
func buildKey(path string, n *yaml.Node) (*dsl.StringNode, error) {
	d, err := parseDef(path, n)
	if err != nil {
		return nil, err
	}
	t, err := d.typeName("string")
	if err != nil {
		return nil, err
	}
	if t != "string" {
		return nil, d.errAt("type", errors.New("map keys must be strings"))
	}
	if err := d.checkKeys(stringKeys); err != nil {
		return nil, err
	}
	return buildString(d)
}
