package shape

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	fluentschema "github.com/reoring/fluentschema"
	"github.com/reoring/fluentschema/dsl"
)

// Options controls Export.
type Options struct {
	// Name is the default name of the root node. A title on the root wins.
	Name string
	// OmitDocumentation drops descriptions from shapes and members.
	OmitDocumentation bool
}

// ErrUnsupported reports a node that has no shape equivalent, such as an
// object mixing named and pattern properties.
var ErrUnsupported = errors.New("shape: unsupported schema")

// Export walks n and adds one shape per node to c. It returns the name of the
// root shape.
func Export(n dsl.Node, c Container, opts Options) (string, error) {
	if n == nil || c == nil {
		return "", &fluentschema.InvalidArgumentError{Op: "shape export", Reason: "node and container are required"}
	}
	return (&exporter{c: c, opts: opts}).export(n, opts.Name)
}

// Identifier turns s into a capitalized identifier: separators are dropped
// and every word is title-cased, so "first_name" becomes "FirstName".
func Identifier(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	// a Caser keeps state, so each call gets its own
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	out := b.String()
	if out != "" && unicode.IsDigit(rune(out[0])) {
		out = "N" + out
	}
	return out
}

// exporter is a dsl.Visitor. name is the default name of the node being
// visited; titles override it.
type exporter struct {
	c    Container
	opts Options
	name string
}

var _ dsl.Visitor = (*exporter)(nil)

func (e *exporter) export(n dsl.Node, name string) (string, error) {
	out, err := n.Export(&exporter{c: e.c, opts: e.opts, name: name})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// begin derives the shape name and the fields every kind shares.
func (e *exporter) begin(n dsl.Node, typ string) (string, Shape, error) {
	bag := n.Bag()
	name := e.name
	if t, ok := bag["title"].(string); ok {
		name = t
	}
	name = Identifier(name)
	if name == "" {
		return "", Shape{}, &fluentschema.MissingNameError{}
	}
	s := Shape{Type: typ, Documentation: e.doc(bag)}
	if lo, hi := n.Kind().BoundKeys(); lo != "" {
		s.Min, s.Max = bag[lo], bag[hi]
	}
	return name, s, nil
}

func (e *exporter) doc(bag map[string]any) string {
	if e.opts.OmitDocumentation {
		return ""
	}
	d, _ := bag["description"].(string)
	return d
}

func (e *exporter) add(name string, s Shape) (any, error) {
	if err := e.c.AddShape(name, s); err != nil {
		return nil, err
	}
	return name, nil
}

func (e *exporter) VisitString(n *dsl.StringNode) (any, error) {
	name, s, err := e.begin(n, TypeString)
	if err != nil {
		return nil, err
	}
	bag := n.Bag()
	if bag["format"] == "date-time" {
		s.Type = TypeTimestamp
	}
	s.Pattern, _ = bag["pattern"].(string)
	if enum, ok := bag["enum"].([]any); ok {
		for _, v := range enum {
			s.Enum = append(s.Enum, fmt.Sprint(v))
		}
	}
	return e.add(name, s)
}

func (e *exporter) VisitMedia(n *dsl.MediaNode) (any, error) {
	name, s, err := e.begin(n, TypeBlob)
	if err != nil {
		return nil, err
	}
	return e.add(name, s)
}

func (e *exporter) VisitNumber(n *dsl.NumberNode) (any, error) {
	typ := TypeDouble
	if n.IsFloat() {
		typ = TypeFloat
	}
	name, s, err := e.begin(n, typ)
	if err != nil {
		return nil, err
	}
	return e.add(name, s)
}

func (e *exporter) VisitInteger(n *dsl.IntegerNode) (any, error) {
	typ := TypeInteger
	if n.Bits() == 64 {
		typ = TypeLong
	}
	name, s, err := e.begin(n, typ)
	if err != nil {
		return nil, err
	}
	return e.add(name, s)
}

func (e *exporter) VisitBoolean(n *dsl.BooleanNode) (any, error) {
	name, s, err := e.begin(n, TypeBoolean)
	if err != nil {
		return nil, err
	}
	return e.add(name, s)
}

func (e *exporter) VisitObject(n *dsl.ObjectNode) (any, error) {
	fields, patterns := n.Fields(), n.PatternFields()
	if len(patterns) > 0 {
		if len(fields) > 0 || len(patterns) > 1 {
			return nil, fmt.Errorf("%w: object %q mixes pattern properties with other properties", ErrUnsupported, e.name)
		}
		// a lone pattern property is a map in disguise
		return e.mapShape(n, patterns[0].Name, patterns[0].Node)
	}

	name, s, err := e.begin(n, TypeStructure)
	if err != nil {
		return nil, err
	}
	required := map[string]bool{}
	for _, r := range n.Required() {
		required[r] = true
	}
	for _, f := range fields {
		ref, err := e.export(f.Node, name+Identifier(f.Name))
		if err != nil {
			return nil, err
		}
		m := Member{Shape: ref, Required: required[f.Name], Documentation: e.doc(f.Node.Bag())}
		if loc := f.Node.MemberLocation(); loc != "" {
			m.Location, m.LocationName = loc, f.Name
		}
		if s.Members == nil {
			s.Members = map[string]Member{}
		}
		s.Members[f.Name] = m
	}
	return e.add(name, s)
}

func (e *exporter) VisitArray(n *dsl.ArrayNode) (any, error) {
	name, s, err := e.begin(n, TypeList)
	if err != nil {
		return nil, err
	}
	item := n.Item()
	if item == nil {
		return nil, fmt.Errorf("%w: list %q has no item schema", ErrUnsupported, name)
	}
	ref, err := e.export(item, name+"Member")
	if err != nil {
		return nil, err
	}
	s.Member = &Ref{Shape: ref}
	return e.add(name, s)
}

// VisitMap emits key and value references directly; the pattern property
// used by the JSON Schema form is not visited.
func (e *exporter) VisitMap(n *dsl.MapNode) (any, error) {
	name, s, err := e.begin(n, TypeMap)
	if err != nil {
		return nil, err
	}
	keyRef, err := e.export(n.KeySchema(), name+"Key")
	if err != nil {
		return nil, err
	}
	valueRef, err := e.export(n.ValueSchema(), name+"Value")
	if err != nil {
		return nil, err
	}
	s.Key, s.Value = &Ref{Shape: keyRef}, &Ref{Shape: valueRef}
	return e.add(name, s)
}

func (e *exporter) mapShape(n *dsl.ObjectNode, pattern string, value dsl.Node) (any, error) {
	name, s, err := e.begin(n, TypeMap)
	if err != nil {
		return nil, err
	}
	keyName := name + "Key"
	if err := e.c.AddShape(keyName, Shape{Type: TypeString, Pattern: pattern}); err != nil {
		return nil, err
	}
	valueRef, err := e.export(value, name+"Value")
	if err != nil {
		return nil, err
	}
	s.Key, s.Value = &Ref{Shape: keyName}, &Ref{Shape: valueRef}
	return e.add(name, s)
}
