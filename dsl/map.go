package dsl

import fluentschema "github.com/reoring/fluentschema"

// MapNode is a key -> value dictionary rendered as an object with a single
// pattern property: the key pattern (".*" without one), anchored, mapping to
// the value schema.
//
// The pattern property is derived lazily, exactly once, by the first Lock,
// Export or Copy. The value schema must be set before that.
type MapNode struct{ base[*MapNode] }

// Map returns a new, unlocked map node.
func Map() *MapNode { return wrapMap(newNode(KindMap)) }

func wrapMap(n *node) *MapNode {
	m := &MapNode{}
	m.n, m.self, m.wrap = n, m, wrapMap
	return m
}

// KeyPattern constrains keys to pattern. It fails if a key schema is set.
func (m *MapNode) KeyPattern(pattern string) *MapNode {
	return m.apply(func(n *node) (*node, error) {
		k := String().Pattern(pattern)
		if err := k.Err(); err != nil {
			return nil, err
		}
		return n.setKey(k)
	})
}

// Key sets the key schema. It must be a required string node.
func (m *MapNode) Key(key *StringNode) *MapNode {
	return m.apply(func(n *node) (*node, error) { return n.setKey(key) })
}

// Value sets the value schema once. It must be required.
func (m *MapNode) Value(child Node) *MapNode {
	return m.apply(func(n *node) (*node, error) {
		if err := n.lockedErr("value"); err != nil {
			return nil, err
		}
		if n.value != nil {
			return nil, n.alreadySet("value")
		}
		if child != nil && child.IsOptional() {
			return nil, &fluentschema.InvalidArgumentError{Op: "value", Reason: "value must be required"}
		}
		c, err := childOf(n, "value", child)
		if err != nil {
			return nil, err
		}
		n.value = c
		return n, nil
	})
}

// Min sets "minProperties" once.
func (m *MapNode) Min(n int) *MapNode {
	return m.apply(func(x *node) (*node, error) { return x.setBound(lower, n) })
}

// Max sets "maxProperties" once.
func (m *MapNode) Max(n int) *MapNode {
	return m.apply(func(x *node) (*node, error) { return x.setBound(upper, n) })
}

// KeySchema returns the key schema, or nil before finalization when none
// was given.
func (m *MapNode) KeySchema() *StringNode {
	if m.n.key == nil {
		return nil
	}
	return wrapString(m.n.key)
}

// ValueSchema returns the value schema, or nil when none was set.
func (m *MapNode) ValueSchema() Node {
	if m.n.value == nil {
		return nil
	}
	return wrapNode(m.n.value)
}

// KeyPatternAnchored returns the anchored pattern used as pattern-property
// key, or "" before finalization.
func (m *MapNode) KeyPatternAnchored() string {
	if len(m.n.patterns) == 0 {
		return ""
	}
	return m.n.patterns[0].name
}

func (n *node) setKey(key *StringNode) (*node, error) {
	if err := n.lockedErr("key"); err != nil {
		return nil, err
	}
	if n.key != nil {
		return nil, n.alreadySet("key")
	}
	if key == nil {
		return nil, &fluentschema.InvalidArgumentError{Op: "key", Reason: "key schema is nil"}
	}
	if key.IsOptional() {
		return nil, &fluentschema.InvalidArgumentError{Op: "key", Reason: "key must be required"}
	}
	c, err := childOf(n, "key", key)
	if err != nil {
		return nil, err
	}
	n.key = c
	return n, nil
}

func (n *node) finalizeMap() error {
	if n.finalized {
		return nil
	}
	if n.value == nil {
		return &fluentschema.MissingValueSchemaError{}
	}
	if n.key == nil {
		n.key = newNode(KindString)
		n.key.locked = true
	}
	pattern := ".*"
	if p, ok := n.key.bag["pattern"].(string); ok {
		pattern = p
	}
	n.patterns = []field{{name: anchor(pattern), n: n.value}}
	n.finalized = true
	return nil
}
