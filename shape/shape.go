// Package shape exports dsl node trees into a flat registry of named shapes
// for service-interface generators.
//
// Each node becomes one named shape. Containers reference their children by
// name instead of nesting them:
//
//	reg := shape.NewRegistry()
//	name, err := shape.Export(user, reg, shape.Options{Name: "User"})
//	// reg.Shapes(): {"User": {type: structure, members: {...}}, "UserName": {type: string}, ...}
package shape

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"sync"
)

// Shape types.
const (
	TypeString    = "string"
	TypeTimestamp = "timestamp"
	TypeBlob      = "blob"
	TypeBoolean   = "boolean"
	TypeInteger   = "integer"
	TypeLong      = "long"
	TypeFloat     = "float"
	TypeDouble    = "double"
	TypeStructure = "structure"
	TypeList      = "list"
	TypeMap       = "map"
)

// Shape is a single named entry of the registry.
type Shape struct {
	Type          string            `json:"type" yaml:"type"`
	Documentation string            `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Min           any               `json:"min,omitempty" yaml:"min,omitempty"`
	Max           any               `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern       string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Enum          []string          `json:"enum,omitempty" yaml:"enum,omitempty"`
	Members       map[string]Member `json:"members,omitempty" yaml:"members,omitempty"`
	Member        *Ref              `json:"member,omitempty" yaml:"member,omitempty"`
	Key           *Ref              `json:"key,omitempty" yaml:"key,omitempty"`
	Value         *Ref              `json:"value,omitempty" yaml:"value,omitempty"`
}

// Ref points at another shape by name.
type Ref struct {
	Shape string `json:"shape" yaml:"shape"`
}

// Member is a structure member.
type Member struct {
	Shape         string `json:"shape" yaml:"shape"`
	Required      bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Location      string `json:"location,omitempty" yaml:"location,omitempty"`
	LocationName  string `json:"locationName,omitempty" yaml:"locationName,omitempty"`
}

func (s Shape) clone() Shape {
	s.Enum = slices.Clone(s.Enum)
	s.Members = maps.Clone(s.Members)
	if s.Member != nil {
		r := *s.Member
		s.Member = &r
	}
	if s.Key != nil {
		r := *s.Key
		s.Key = &r
	}
	if s.Value != nil {
		r := *s.Value
		s.Value = &r
	}
	return s
}

// Container receives the shapes produced by Export.
type Container interface {
	AddShape(name string, s Shape) error
}

// ErrShapeConflict is returned when a name is registered twice with
// different shapes.
var ErrShapeConflict = errors.New("shape: conflicting definition")

// Registry is an in-memory Container. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	shapes map[string]Shape
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{shapes: map[string]Shape{}}
}

// AddShape registers s under name. Registering an identical shape again is a
// no-op, so shared subtrees may be exported more than once.
func (r *Registry) AddShape(name string, s Shape) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.shapes[name]; ok {
		if reflect.DeepEqual(old, s) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrShapeConflict, name)
	}
	r.shapes[name] = s.clone()
	return nil
}

// Lookup returns the shape registered under name.
func (r *Registry) Lookup(name string) (Shape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shapes[name]
	if !ok {
		return Shape{}, false
	}
	return s.clone(), true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.shapes))
	for n := range r.shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Shapes returns a copy of the registry contents, ready for encoding.
func (r *Registry) Shapes() map[string]Shape {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Shape, len(r.shapes))
	for n, s := range r.shapes {
		out[n] = s.clone()
	}
	return out
}
