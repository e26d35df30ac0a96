package dsl

import fluentschema "github.com/reoring/fluentschema"

// ArrayNode is an "array" schema with a single item schema.
type ArrayNode struct{ base[*ArrayNode] }

// Array returns a new, unlocked array node.
func Array() *ArrayNode { return wrapArray(newNode(KindArray)) }

func wrapArray(n *node) *ArrayNode {
	a := &ArrayNode{}
	a.n, a.self, a.wrap = n, a, wrapArray
	return a
}

// Items sets the item schema once and locks it.
func (a *ArrayNode) Items(child Node) *ArrayNode {
	return a.apply(func(n *node) (*node, error) {
		if err := n.lockedErr("items"); err != nil {
			return nil, err
		}
		if n.items != nil {
			return nil, &fluentschema.ItemsAlreadySetError{}
		}
		c, err := childOf(n, "items", child)
		if err != nil {
			return nil, err
		}
		n.items = c
		return n, nil
	})
}

// Min sets "minItems" once.
func (a *ArrayNode) Min(n int) *ArrayNode {
	return a.apply(func(x *node) (*node, error) { return x.setBound(lower, n) })
}

// Max sets "maxItems" once.
func (a *ArrayNode) Max(n int) *ArrayNode {
	return a.apply(func(x *node) (*node, error) { return x.setBound(upper, n) })
}

// Unique sets "uniqueItems" once.
func (a *ArrayNode) Unique() *ArrayNode {
	return a.apply(func(x *node) (*node, error) { return x.set("uniqueItems", true, false) })
}

// Item returns the item schema, or nil when none was set.
func (a *ArrayNode) Item() Node {
	if a.n.items == nil {
		return nil
	}
	return wrapNode(a.n.items)
}
