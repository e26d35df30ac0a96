package dsl

import (
	"maps"
	"math"
	"slices"

	fluentschema "github.com/reoring/fluentschema"
	js "github.com/reoring/fluentschema/jsonschema"
)

// field is a named (or pattern-keyed) child of an object or map.
type field struct {
	name string
	n    *node
}

// node is the single representation behind every facade. The kind tag selects
// bound names, input validators and visitor dispatch.
//
// Invariants: a locked node is never mutated; a bag key, once present, is only
// replaced on a clone.
type node struct {
	kind     Kind
	bag      map[string]any
	locked   bool
	optional bool
	err      error

	hasDefault bool
	location   string

	// number / integer
	float bool
	bits  int             // 32 or 64 once a safe range is applied
	auto  map[string]bool // bounds installed by a safe range; Min/Max may tighten them

	// object / map
	fields     []field
	patterns   []field
	required   []string
	additional bool

	// array
	items *node

	// map
	key, value *node
	finalized  bool
}

func newNode(k Kind) *node {
	return &node{kind: k, bag: map[string]any{"type": k.JSONType()}}
}

// clone deep-copies the bag and resets the lock. Children are shared: they
// are locked, so sharing them is safe.
func (n *node) clone() *node {
	c := *n
	c.bag = js.Clone(n.bag).(map[string]any)
	c.locked = false
	c.auto = maps.Clone(n.auto)
	c.fields = slices.Clone(n.fields)
	c.patterns = slices.Clone(n.patterns)
	c.required = slices.Clone(n.required)
	return &c
}

func (n *node) lockedErr(op string) error {
	if n.locked {
		return &fluentschema.LockedSchemaError{Kind: n.kind.String(), Op: op}
	}
	return nil
}

func (n *node) alreadySet(property string) error {
	return &fluentschema.PropertyAlreadySetError{Kind: n.kind.String(), Property: property}
}

// set assigns a bag property. Without override the node must be unlocked and
// the key new; the node is mutated and returned. With override a locked node
// or an existing key yields a clone carrying the new value.
func (n *node) set(key string, value any, override bool) (*node, error) {
	_, exists := n.bag[key]
	if !override {
		if err := n.lockedErr("set " + key); err != nil {
			return nil, err
		}
		if exists {
			return nil, n.alreadySet(key)
		}
		n.bag[key] = value
		return n, nil
	}
	if n.locked || exists {
		c := n.clone()
		c.bag[key] = value
		return c, nil
	}
	n.bag[key] = value
	return n, nil
}

// flag applies a set-once, non-bag attribute in place.
func (n *node) flag(name string, isSet bool, apply func(*node)) (*node, error) {
	if err := n.lockedErr(name); err != nil {
		return nil, err
	}
	if isSet {
		return nil, n.alreadySet(name)
	}
	apply(n)
	return n, nil
}

// prepare runs deferred finalization before lock, export or copy.
func (n *node) prepare() error {
	if n.kind == KindMap {
		return n.finalizeMap()
	}
	return nil
}

func (n *node) lock() error {
	if n.locked {
		return nil
	}
	if err := n.prepare(); err != nil {
		return err
	}
	n.locked = true
	return nil
}

type side int

const (
	lower side = iota
	upper
)

// setBound validates v for the node kind, cross-checks it against the
// opposite bound and the safe integer range, and stores it once.
func (n *node) setBound(s side, v any) (*node, error) {
	minKey, maxKey := n.kind.BoundKeys()
	key, other := minKey, maxKey
	if s == upper {
		key, other = maxKey, minKey
	}
	if key == "" {
		return nil, &fluentschema.InvalidArgumentError{Op: "bound", Reason: n.kind.String() + " nodes have no bounds"}
	}
	if err := n.lockedErr("set " + key); err != nil {
		return nil, err
	}
	val, err := n.boundValue(key, v)
	if err != nil {
		return nil, err
	}
	if n.bits != 0 {
		lo, hi := safeRange(n.bits)
		if i := val.(int64); i < lo || i > hi {
			return nil, &fluentschema.RangeInversionError{Property: key, Value: v, Reason: rangeReason(n.bits)}
		}
	}
	if o, ok := n.bag[other]; ok {
		if s == lower && less(o, val) {
			return nil, &fluentschema.RangeInversionError{Property: key, Value: v, Reason: "min must be less than max"}
		}
		if s == upper && less(val, o) {
			return nil, &fluentschema.RangeInversionError{Property: key, Value: v, Reason: "max must be more than min"}
		}
	}
	target := n
	if _, exists := n.bag[key]; exists {
		if !n.auto[key] {
			return nil, n.alreadySet(key)
		}
		target = n.clone()
		delete(target.auto, key)
	}
	target.bag[key] = val
	return target, nil
}

func (n *node) boundValue(key string, v any) (any, error) {
	switch {
	case n.kind.countBounded():
		i, ok := toInt64(v)
		if !ok {
			return nil, &fluentschema.InvalidArgumentError{Op: key, Reason: "must be an integer"}
		}
		if i < 0 {
			return nil, &fluentschema.InvalidArgumentError{Op: key, Reason: "must be non-negative"}
		}
		return i, nil
	case n.kind == KindInteger:
		i, ok := toInt64(v)
		if !ok {
			return nil, &fluentschema.InvalidArgumentError{Op: key, Reason: "must be an integer"}
		}
		return i, nil
	default:
		f, ok := toFloat(v)
		if !ok {
			return nil, &fluentschema.InvalidArgumentError{Op: key, Reason: "must be a number"}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &fluentschema.InvalidArgumentError{Op: key, Reason: "must be finite"}
		}
		return f, nil
	}
}

// Safe integer ranges installed by AsInt32 and AsInt64.
const (
	MinInt32 int64 = math.MinInt32
	MaxInt32 int64 = math.MaxInt32
	MinInt64 int64 = math.MinInt64
	MaxInt64 int64 = math.MaxInt64
)

func safeRange(bits int) (lo, hi int64) {
	if bits == 32 {
		return MinInt32, MaxInt32
	}
	return MinInt64, MaxInt64
}

func rangeReason(bits int) string {
	if bits == 32 {
		return "outside the int32 safe range"
	}
	return "outside the int64 safe range"
}

func (n *node) applySafeRange(bits int) (*node, error) {
	if err := n.lockedErr("safe range"); err != nil {
		return nil, err
	}
	if n.bits != 0 {
		return nil, n.alreadySet("range")
	}
	lo, hi := safeRange(bits)
	if v, ok := n.bag["maximum"]; ok && v.(int64) > hi {
		return nil, &fluentschema.RangeInversionError{Property: "maximum", Value: v, Reason: rangeReason(bits)}
	}
	if v, ok := n.bag["minimum"]; ok && v.(int64) < lo {
		return nil, &fluentschema.RangeInversionError{Property: "minimum", Value: v, Reason: rangeReason(bits)}
	}
	if n.auto == nil {
		n.auto = map[string]bool{}
	}
	if _, ok := n.bag["maximum"]; !ok {
		n.bag["maximum"] = hi
		n.auto["maximum"] = true
	}
	if _, ok := n.bag["minimum"]; !ok {
		n.bag["minimum"] = lo
		n.auto["minimum"] = true
	}
	n.bits = bits
	return n, nil
}

// setEnum stores a non-empty list of distinct values once.
func (n *node) setEnum(values []any) (*node, error) {
	if len(values) == 0 {
		return nil, &fluentschema.InvalidArgumentError{Op: "enum", Reason: "requires at least one value"}
	}
	seen := make(map[any]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return nil, &fluentschema.InvalidArgumentError{Op: "enum", Reason: "duplicate value"}
		}
		seen[v] = struct{}{}
	}
	return n.set("enum", values, false)
}

func less(a, b any) bool {
	ai, aok := a.(int64)
	bi, bok := b.(int64)
	if aok && bok {
		return ai < bi
	}
	af, _ := toFloat(a)
	bf, _ := toFloat(b)
	return af < bf
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float32:
		return toInt64(float64(t))
	case float64:
		// 2^63 is the first float64 above MaxInt64
		if math.IsNaN(t) || math.IsInf(t, 0) || math.Trunc(t) != t || t < math.MinInt64 || t >= 1<<63 {
			return 0, false
		}
		return int64(t), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return 0, false
}
