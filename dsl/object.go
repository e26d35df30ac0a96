package dsl

import (
	"regexp"
	"sort"
	"strings"

	fluentschema "github.com/reoring/fluentschema"
)

// Field is a child of an object as seen by visitors.
type Field struct {
	Name string // property name, or anchored pattern for pattern properties
	Node Node
}

// ObjectNode is an "object" schema with named and pattern properties.
type ObjectNode struct{ base[*ObjectNode] }

// Object returns a new, unlocked object node. Until a property is attached it
// accepts any property.
func Object() *ObjectNode { return wrapObject(newNode(KindObject)) }

func wrapObject(n *node) *ObjectNode {
	o := &ObjectNode{}
	o.n, o.self, o.wrap = n, o, wrapObject
	return o
}

// Prop attaches child under name. The child is locked; if it is required the
// name is appended to "required".
func (o *ObjectNode) Prop(name string, child Node) *ObjectNode {
	return o.apply(func(n *node) (*node, error) { return n.attach(name, child) })
}

// Props attaches every entry in name order. It is all or nothing: on the
// first failure no entry is attached and no child is locked.
func (o *ObjectNode) Props(children map[string]Node) *ObjectNode {
	return o.apply(func(n *node) (*node, error) {
		return n.batch("props", children, func(s *node, name string, c *node) error {
			if err := s.fieldErr(name); err != nil {
				return err
			}
			s.addField(name, c)
			return nil
		})
	})
}

// PatternProps attaches a child per pattern. Patterns are anchored ("^...$")
// before use, so they match whole property names.
func (o *ObjectNode) PatternProps(children map[string]Node) *ObjectNode {
	return o.apply(func(n *node) (*node, error) {
		return n.batch("patternProps", children, func(s *node, pattern string, c *node) error {
			p, err := s.patternErr(pattern)
			if err != nil {
				return err
			}
			s.patterns = append(s.patterns, field{name: p, n: c})
			return nil
		})
	})
}

// AllowAdditional exports "additionalProperties": true even when properties
// are attached.
func (o *ObjectNode) AllowAdditional() *ObjectNode {
	return o.apply(func(n *node) (*node, error) {
		return n.flag("additionalProperties", n.additional, func(n *node) { n.additional = true })
	})
}

// Min sets "minProperties" once.
func (o *ObjectNode) Min(n int) *ObjectNode {
	return o.apply(func(x *node) (*node, error) { return x.setBound(lower, n) })
}

// Max sets "maxProperties" once.
func (o *ObjectNode) Max(n int) *ObjectNode {
	return o.apply(func(x *node) (*node, error) { return x.setBound(upper, n) })
}

// Fields returns the named properties in attach order.
func (o *ObjectNode) Fields() []Field { return publicFields(o.n.fields) }

// PatternFields returns the pattern properties in attach order.
func (o *ObjectNode) PatternFields() []Field { return publicFields(o.n.patterns) }

// Required returns the names of required properties.
func (o *ObjectNode) Required() []string { return append([]string(nil), o.n.required...) }

// AllowsAdditional reports the exported "additionalProperties" value.
func (o *ObjectNode) AllowsAdditional() bool { return o.n.allowsAdditional() }

func (n *node) allowsAdditional() bool {
	return n.additional || (len(n.fields) == 0 && len(n.patterns) == 0)
}

// checkChild resolves a child about to be attached to parent without side
// effects: nothing is locked or finalized.
func checkChild(parent *node, op string, child Node) (*node, error) {
	if child == nil {
		return nil, &fluentschema.InvalidArgumentError{Op: op, Reason: "child schema is nil"}
	}
	c := child.core()
	if c.err != nil {
		return nil, c.err
	}
	if c == parent {
		return nil, &fluentschema.InvalidArgumentError{Op: op, Reason: "a node cannot contain itself"}
	}
	if c.kind == KindMap && !c.finalized && c.value == nil {
		return nil, &fluentschema.MissingValueSchemaError{}
	}
	return c, nil
}

// childOf resolves and locks a child about to be attached to parent.
func childOf(parent *node, op string, child Node) (*node, error) {
	c, err := checkChild(parent, op, child)
	if err != nil {
		return nil, err
	}
	if err := c.lock(); err != nil {
		return nil, err
	}
	return c, nil
}

func (n *node) attach(name string, child Node) (*node, error) {
	if err := n.lockedErr("prop"); err != nil {
		return nil, err
	}
	if err := n.fieldErr(name); err != nil {
		return nil, err
	}
	c, err := childOf(n, "prop", child)
	if err != nil {
		return nil, err
	}
	n.addField(name, c)
	return n, nil
}

func (n *node) fieldErr(name string) error {
	if name == "" {
		return &fluentschema.InvalidArgumentError{Op: "prop", Reason: "name must be a non-empty string"}
	}
	for _, f := range n.fields {
		if f.name == name {
			return &fluentschema.DuplicatePropertyError{Name: name}
		}
	}
	return nil
}

func (n *node) addField(name string, c *node) {
	n.fields = append(n.fields, field{name: name, n: c})
	if !c.optional {
		n.required = append(n.required, name)
	}
}

func (n *node) attachPattern(pattern string, child Node) (*node, error) {
	if err := n.lockedErr("patternProps"); err != nil {
		return nil, err
	}
	p, err := n.patternErr(pattern)
	if err != nil {
		return nil, err
	}
	c, err := childOf(n, "patternProps", child)
	if err != nil {
		return nil, err
	}
	n.patterns = append(n.patterns, field{name: p, n: c})
	return n, nil
}

// patternErr returns the anchored form of pattern, or why it cannot be added.
func (n *node) patternErr(pattern string) (string, error) {
	p := anchor(pattern)
	if _, err := regexp.Compile(p); err != nil {
		return "", &fluentschema.InvalidArgumentError{Op: "patternProps", Reason: err.Error()}
	}
	for _, f := range n.patterns {
		if f.name == p {
			return "", &fluentschema.DuplicatePatternError{Pattern: p}
		}
	}
	return p, nil
}

// batch attaches children in key order. Every entry is checked on a scratch
// copy first; children are locked and the copy committed only when all of
// them pass.
func (n *node) batch(op string, children map[string]Node, add func(scratch *node, key string, c *node) error) (*node, error) {
	if err := n.lockedErr(op); err != nil {
		return nil, err
	}
	scratch := n.clone()
	staged := make([]*node, 0, len(children))
	for _, k := range sortedKeys(children) {
		c, err := checkChild(n, op, children[k])
		if err != nil {
			return nil, err
		}
		if err := add(scratch, k, c); err != nil {
			return nil, err
		}
		staged = append(staged, c)
	}
	for _, c := range staged {
		if err := c.lock(); err != nil {
			return nil, err
		}
	}
	*n = *scratch
	return n, nil
}

// anchor normalizes a pattern to its canonical whole-match form.
func anchor(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	return pattern
}

func publicFields(fs []field) []Field {
	out := make([]Field, len(fs))
	for i, f := range fs {
		out[i] = Field{Name: f.name, Node: wrapNode(f.n)}
	}
	return out
}

func sortedKeys(m map[string]Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
