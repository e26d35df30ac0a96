package dsl

import (
	"regexp"
	"strings"

	fluentschema "github.com/reoring/fluentschema"
	js "github.com/reoring/fluentschema/jsonschema"
)

// Node is implemented by every schema node. It is sealed: only the facades of
// this package satisfy it.
type Node interface {
	Kind() Kind
	// Err returns the first construction error recorded on this node.
	Err() error
	IsLocked() bool
	IsOptional() bool
	HasDefault() bool
	// MemberLocation returns the transport location set by Location.
	MemberLocation() string
	// Bag returns a deep copy of the exported property bag.
	Bag() map[string]any
	Export(v Visitor) (any, error)
	JSONSchema() (js.Document, error)
	Compile(name string, c fluentschema.Compiler) (*Compiled, error)

	core() *node
}

// base carries the behavior shared by every facade. N is the facade type so
// chains stay typed: String().Title("x") is still a *StringNode.
//
// Every mutating call returns the node that now holds the change: the
// receiver when it was unlocked and the key new, a copy otherwise. Callers
// must keep chaining from the returned value.
type base[N any] struct {
	n    *node
	self N
	wrap func(*node) N
}

func (b *base[N]) core() *node { return b.n }

// apply runs a node operation with sticky error semantics: a node holding an
// error ignores further calls, and a failing call leaves the receiver
// untouched and returns a fresh node carrying the error.
func (b *base[N]) apply(op func(n *node) (*node, error)) N {
	if b.n.err != nil {
		return b.self
	}
	m, err := op(b.n)
	if err != nil {
		f := b.n.clone()
		f.err = err
		return b.wrap(f)
	}
	if m == b.n {
		return b.self
	}
	return b.wrap(m)
}

func (b *base[N]) Err() error             { return b.n.err }
func (b *base[N]) IsLocked() bool         { return b.n.locked }
func (b *base[N]) IsOptional() bool       { return b.n.optional }
func (b *base[N]) HasDefault() bool       { return b.n.hasDefault }
func (b *base[N]) MemberLocation() string { return b.n.location }
func (b *base[N]) Kind() Kind             { return b.n.kind }

func (b *base[N]) Bag() map[string]any { return js.Clone(b.n.bag).(map[string]any) }

// Title sets "title". Repeated calls copy and replace.
func (b *base[N]) Title(title string) N {
	return b.apply(func(n *node) (*node, error) {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, &fluentschema.InvalidArgumentError{Op: "title", Reason: "must be a non-empty string"}
		}
		return n.set("title", title, true)
	})
}

var newlineRun = regexp.MustCompile(`\s*\n\s*`)

// Desc sets "description". Parts are joined by a single space, embedded
// newlines collapse to one space and the result is trimmed, so
// Desc("a", "b") equals Desc("a b"). Repeated calls copy and replace.
func (b *base[N]) Desc(parts ...string) N {
	return b.apply(func(n *node) (*node, error) {
		d := strings.TrimSpace(newlineRun.ReplaceAllString(strings.Join(parts, " "), " "))
		if d == "" {
			return nil, &fluentschema.InvalidArgumentError{Op: "description", Reason: "must be a non-empty string"}
		}
		return n.set("description", d, true)
	})
}

// Examples sets "examples". An element that is a sequence of strings
// ([]string, or a non-empty []any holding only strings) is joined by a space,
// which lets long examples be split across literals. Repeated calls copy and
// replace.
func (b *base[N]) Examples(examples ...any) N {
	return b.apply(func(n *node) (*node, error) {
		if len(examples) == 0 {
			return nil, &fluentschema.InvalidArgumentError{Op: "examples", Reason: "requires at least one example"}
		}
		out := make([]any, 0, len(examples))
		for _, e := range examples {
			if parts, ok := stringParts(e); ok {
				out = append(out, strings.Join(parts, " "))
				continue
			}
			v, err := js.Freeze(e)
			if err != nil {
				return nil, &fluentschema.InvalidArgumentError{Op: "examples", Reason: err.Error()}
			}
			out = append(out, v)
		}
		return n.set("examples", out, true)
	})
}

func stringParts(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		if len(t) == 0 {
			return nil, false
		}
		parts := make([]string, len(t))
		for i, x := range t {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			parts[i] = s
		}
		return parts, true
	}
	return nil, false
}

// Default sets "default" once. The value is frozen into an independent JSON
// value, so later changes to v are not observed.
func (b *base[N]) Default(v any) N {
	return b.apply(func(n *node) (*node, error) {
		frozen, err := js.Freeze(v)
		if err != nil {
			return nil, &fluentschema.InvalidArgumentError{Op: "default", Reason: err.Error()}
		}
		m, err := n.set("default", frozen, false)
		if err != nil {
			return nil, err
		}
		m.hasDefault = true
		return m, nil
	})
}

// ReadOnly sets "readOnly" once.
func (b *base[N]) ReadOnly() N {
	return b.apply(func(n *node) (*node, error) { return n.set("readOnly", true, false) })
}

// Optional marks the node as not required. Nodes are required by default.
func (b *base[N]) Optional() N {
	return b.apply(func(n *node) (*node, error) {
		return n.flag("optional", n.optional, func(n *node) { n.optional = true })
	})
}

// Location records where a member travels in a service interface (see the
// Location* constants). It only affects the shape export.
func (b *base[N]) Location(where string) N {
	return b.apply(func(n *node) (*node, error) {
		where = strings.TrimSpace(where)
		if where == "" {
			return nil, &fluentschema.InvalidArgumentError{Op: "location", Reason: "must be a non-empty string"}
		}
		return n.flag("location", n.location != "", func(n *node) { n.location = where })
	})
}

// Member locations understood by service-interface generators.
const (
	LocationURI         = "uri"
	LocationQueryString = "querystring"
	LocationHeader      = "header"
	LocationBody        = "body"
)

// Lock makes the node immutable. It is idempotent.
func (b *base[N]) Lock() N {
	return b.apply(func(n *node) (*node, error) { return n, n.lock() })
}

// Copy returns an unlocked, independent node with a deep copy of the bag.
// The optional flag and children are preserved.
func (b *base[N]) Copy() N {
	return b.apply(func(n *node) (*node, error) {
		if err := n.prepare(); err != nil {
			return nil, err
		}
		return n.clone(), nil
	})
}

// Export dispatches to the visitor method of the node kind.
func (b *base[N]) Export(v Visitor) (any, error) {
	if b.n.err != nil {
		return nil, b.n.err
	}
	if err := b.n.prepare(); err != nil {
		return nil, err
	}
	return dispatch(any(b.self).(Node), v)
}

// JSONSchema exports the node as a draft-07 document. Each call returns an
// independent copy.
func (b *base[N]) JSONSchema() (js.Document, error) {
	out, err := b.Export(SchemaExporter{})
	if err != nil {
		return nil, err
	}
	doc := js.Document(out.(map[string]any))
	doc[js.SchemaKey] = js.Draft07
	return doc, nil
}
