package dsl

import (
	"fmt"

	js "github.com/reoring/fluentschema/jsonschema"
)

// Visitor produces an export for each node kind. Export dispatches to the
// method matching the node; visitors recurse into children by calling
// Export on them.
type Visitor interface {
	VisitString(n *StringNode) (any, error)
	VisitMedia(n *MediaNode) (any, error)
	VisitNumber(n *NumberNode) (any, error)
	VisitInteger(n *IntegerNode) (any, error)
	VisitBoolean(n *BooleanNode) (any, error)
	VisitObject(n *ObjectNode) (any, error)
	VisitArray(n *ArrayNode) (any, error)
	VisitMap(n *MapNode) (any, error)
}

func dispatch(n Node, v Visitor) (any, error) {
	switch t := n.(type) {
	case *StringNode:
		return v.VisitString(t)
	case *MediaNode:
		return v.VisitMedia(t)
	case *NumberNode:
		return v.VisitNumber(t)
	case *IntegerNode:
		return v.VisitInteger(t)
	case *BooleanNode:
		return v.VisitBoolean(t)
	case *ObjectNode:
		return v.VisitObject(t)
	case *ArrayNode:
		return v.VisitArray(t)
	case *MapNode:
		return v.VisitMap(t)
	default:
		return nil, fmt.Errorf("dsl: unsupported node %T", n)
	}
}

// wrapNode returns the facade matching the node kind.
func wrapNode(n *node) Node {
	switch n.kind {
	case KindString:
		return wrapString(n)
	case KindMedia:
		return wrapMedia(n)
	case KindNumber:
		return wrapNumber(n)
	case KindInteger:
		return wrapInteger(n)
	case KindBoolean:
		return wrapBoolean(n)
	case KindObject:
		return wrapObject(n)
	case KindArray:
		return wrapArray(n)
	default:
		return wrapMap(n)
	}
}

// SchemaExporter is the JSON Schema visitor. Scalars export their property
// bag; containers add "properties", "patternProperties", "required",
// "additionalProperties" and "items". Every result is a fresh copy.
type SchemaExporter struct{}

func (SchemaExporter) VisitString(n *StringNode) (any, error)   { return n.Bag(), nil }
func (SchemaExporter) VisitMedia(n *MediaNode) (any, error)     { return n.Bag(), nil }
func (SchemaExporter) VisitNumber(n *NumberNode) (any, error)   { return n.Bag(), nil }
func (SchemaExporter) VisitInteger(n *IntegerNode) (any, error) { return n.Bag(), nil }
func (SchemaExporter) VisitBoolean(n *BooleanNode) (any, error) { return n.Bag(), nil }

func (e SchemaExporter) VisitObject(n *ObjectNode) (any, error) { return e.object(n.n) }

func (e SchemaExporter) VisitArray(n *ArrayNode) (any, error) {
	out := n.Bag()
	if it := n.Item(); it != nil {
		s, err := it.Export(e)
		if err != nil {
			return nil, err
		}
		out["items"] = s
	}
	return out, nil
}

func (e SchemaExporter) VisitMap(n *MapNode) (any, error) {
	out, err := e.object(n.n)
	if err != nil {
		return nil, err
	}
	// key constraints beyond the pattern travel as propertyNames
	if k := n.KeySchema(); k != nil {
		kb := k.Bag()
		delete(kb, "type")
		delete(kb, "pattern")
		if len(kb) > 0 {
			out["propertyNames"] = kb
		}
	}
	return out, nil
}

func (e SchemaExporter) object(n *node) (map[string]any, error) {
	out := js.Clone(n.bag).(map[string]any)
	if len(n.fields) > 0 {
		props := make(map[string]any, len(n.fields))
		for _, f := range n.fields {
			s, err := wrapNode(f.n).Export(e)
			if err != nil {
				return nil, err
			}
			props[f.name] = s
		}
		out["properties"] = props
	}
	if len(n.patterns) > 0 {
		props := make(map[string]any, len(n.patterns))
		for _, f := range n.patterns {
			s, err := wrapNode(f.n).Export(e)
			if err != nil {
				return nil, err
			}
			props[f.name] = s
		}
		out["patternProperties"] = props
	}
	if len(n.required) > 0 {
		out["required"] = append([]string(nil), n.required...)
	}
	out["additionalProperties"] = n.allowsAdditional()
	return out, nil
}
