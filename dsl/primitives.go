package dsl

import (
	"math"
	"mime"
	"regexp"
	"strings"

	fluentschema "github.com/reoring/fluentschema"
)

// ---------------- String ----------------

// stringBase holds the string vocabulary shared by StringNode and MediaNode.
type stringBase[N any] struct{ base[N] }

// Min sets "minLength" once.
func (s *stringBase[N]) Min(n int) N {
	return s.apply(func(x *node) (*node, error) { return x.setBound(lower, n) })
}

// Max sets "maxLength" once.
func (s *stringBase[N]) Max(n int) N {
	return s.apply(func(x *node) (*node, error) { return x.setBound(upper, n) })
}

// Pattern sets "pattern" once. JSON Schema patterns match anywhere in the
// value; anchor them explicitly when a full match is meant.
func (s *stringBase[N]) Pattern(pattern string) N {
	return s.apply(func(x *node) (*node, error) {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, &fluentschema.InvalidArgumentError{Op: "pattern", Reason: err.Error()}
		}
		return x.set("pattern", pattern, false)
	})
}

// Format sets "format" once (e.g. "email", "date-time", "uuid").
func (s *stringBase[N]) Format(format string) N {
	return s.apply(func(x *node) (*node, error) {
		if strings.TrimSpace(format) == "" {
			return nil, &fluentschema.InvalidArgumentError{Op: "format", Reason: "must be a non-empty string"}
		}
		return x.set("format", format, false)
	})
}

// Enum sets "enum" once.
func (s *stringBase[N]) Enum(values ...string) N {
	return s.apply(func(x *node) (*node, error) {
		vs := make([]any, len(values))
		for i, v := range values {
			vs[i] = v
		}
		return x.setEnum(vs)
	})
}

// StringNode is a "string" schema.
type StringNode struct{ stringBase[*StringNode] }

// String returns a new, unlocked string node.
func String() *StringNode { return wrapString(newNode(KindString)) }

func wrapString(n *node) *StringNode {
	s := &StringNode{}
	s.n, s.self, s.wrap = n, s, wrapString
	return s
}

// ---------------- Media ----------------

// Encoding is a contentEncoding value.
type Encoding string

const (
	EncodingBinary Encoding = "binary"
	EncodingBase64 Encoding = "base64"
	EncodingUTF8   Encoding = "utf-8"
)

// MediaNode is a string schema carrying binary or media content.
type MediaNode struct{ stringBase[*MediaNode] }

// Media returns a new, unlocked media node.
func Media() *MediaNode { return wrapMedia(newNode(KindMedia)) }

func wrapMedia(n *node) *MediaNode {
	m := &MediaNode{}
	m.n, m.self, m.wrap = n, m, wrapMedia
	return m
}

// ContentMediaType sets "contentMediaType" once, e.g. "image/png".
func (m *MediaNode) ContentMediaType(mediaType string) *MediaNode {
	return m.apply(func(x *node) (*node, error) {
		if _, _, err := mime.ParseMediaType(mediaType); err != nil {
			return nil, &fluentschema.InvalidArgumentError{Op: "contentMediaType", Reason: err.Error()}
		}
		return x.set("contentMediaType", mediaType, false)
	})
}

// ContentEncoding sets "contentEncoding" once. Only binary, base64 and
// utf-8 are accepted.
func (m *MediaNode) ContentEncoding(enc Encoding) *MediaNode {
	return m.apply(func(x *node) (*node, error) {
		switch enc {
		case EncodingBinary, EncodingBase64, EncodingUTF8:
		default:
			return nil, &fluentschema.InvalidArgumentError{Op: "contentEncoding", Reason: "must be one of binary, base64, utf-8"}
		}
		return x.set("contentEncoding", string(enc), false)
	})
}

// ---------------- Number ----------------

// NumberNode is a "number" schema.
type NumberNode struct{ base[*NumberNode] }

// Number returns a new, unlocked number node.
func Number() *NumberNode { return wrapNumber(newNode(KindNumber)) }

func wrapNumber(n *node) *NumberNode {
	x := &NumberNode{}
	x.n, x.self, x.wrap = n, x, wrapNumber
	return x
}

// Min sets "minimum" once. It must be finite and not above the maximum.
func (s *NumberNode) Min(v float64) *NumberNode {
	return s.apply(func(x *node) (*node, error) { return x.setBound(lower, v) })
}

// Max sets "maximum" once. It must be finite and not below the minimum.
func (s *NumberNode) Max(v float64) *NumberNode {
	return s.apply(func(x *node) (*node, error) { return x.setBound(upper, v) })
}

// Enum sets "enum" once. Values must be finite.
func (s *NumberNode) Enum(values ...float64) *NumberNode {
	return s.apply(func(x *node) (*node, error) {
		vs := make([]any, len(values))
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &fluentschema.InvalidArgumentError{Op: "enum", Reason: "must be finite"}
			}
			vs[i] = v
		}
		return x.setEnum(vs)
	})
}

// AsFloat marks the number as single precision for code generators. It has
// no effect on validation.
func (s *NumberNode) AsFloat() *NumberNode {
	return s.apply(func(x *node) (*node, error) {
		return x.flag("float", x.float, func(x *node) { x.float = true })
	})
}

// IsFloat reports whether AsFloat was applied.
func (s *NumberNode) IsFloat() bool { return s.n.float }

// ---------------- Integer ----------------

// IntegerNode is an "integer" schema.
type IntegerNode struct{ base[*IntegerNode] }

// Integer returns a new, unlocked integer node.
func Integer() *IntegerNode { return wrapInteger(newNode(KindInteger)) }

func wrapInteger(n *node) *IntegerNode {
	x := &IntegerNode{}
	x.n, x.self, x.wrap = n, x, wrapInteger
	return x
}

// Min sets "minimum" once. After AsInt32/AsInt64 it may tighten the
// installed bound but never leave the safe range.
func (s *IntegerNode) Min(v int64) *IntegerNode {
	return s.apply(func(x *node) (*node, error) { return x.setBound(lower, v) })
}

// Max sets "maximum" once. After AsInt32/AsInt64 it may tighten the
// installed bound but never leave the safe range.
func (s *IntegerNode) Max(v int64) *IntegerNode {
	return s.apply(func(x *node) (*node, error) { return x.setBound(upper, v) })
}

// AsInt32 constrains the node to the signed 32-bit range. Missing bounds are
// set to MinInt32/MaxInt32; existing bounds outside the range fail.
func (s *IntegerNode) AsInt32() *IntegerNode {
	return s.apply(func(x *node) (*node, error) { return x.applySafeRange(32) })
}

// AsInt64 constrains the node to the signed 64-bit range.
func (s *IntegerNode) AsInt64() *IntegerNode {
	return s.apply(func(x *node) (*node, error) { return x.applySafeRange(64) })
}

// Bits returns 32 or 64 once a safe range was applied, 0 otherwise.
func (s *IntegerNode) Bits() int { return s.n.bits }

// Enum sets "enum" once.
func (s *IntegerNode) Enum(values ...int64) *IntegerNode {
	return s.apply(func(x *node) (*node, error) {
		vs := make([]any, len(values))
		for i, v := range values {
			vs[i] = v
		}
		return x.setEnum(vs)
	})
}

// ---------------- Boolean ----------------

// BooleanNode is a "boolean" schema.
type BooleanNode struct{ base[*BooleanNode] }

// Boolean returns a new, unlocked boolean node.
func Boolean() *BooleanNode { return wrapBoolean(newNode(KindBoolean)) }

func wrapBoolean(n *node) *BooleanNode {
	x := &BooleanNode{}
	x.n, x.self, x.wrap = n, x, wrapBoolean
	return x
}
