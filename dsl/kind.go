package dsl

// Kind identifies the concrete variant of a node.
type Kind int

const (
	KindString Kind = iota
	KindMedia
	KindNumber
	KindInteger
	KindBoolean
	KindObject
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindMedia:
		return "media"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// JSONType returns the JSON Schema "type" exported for the kind.
func (k Kind) JSONType() string {
	switch k {
	case KindString, KindMedia:
		return "string"
	case KindObject, KindMap:
		return "object"
	default:
		return k.String()
	}
}

// BoundKeys returns the property names Min and Max write for the kind.
// Booleans have no bounds and return empty names.
func (k Kind) BoundKeys() (minKey, maxKey string) {
	switch k {
	case KindString, KindMedia:
		return "minLength", "maxLength"
	case KindNumber, KindInteger:
		return "minimum", "maximum"
	case KindArray:
		return "minItems", "maxItems"
	case KindObject, KindMap:
		return "minProperties", "maxProperties"
	default:
		return "", ""
	}
}

// countBounded reports whether bounds of the kind are non-negative counts.
func (k Kind) countBounded() bool {
	switch k {
	case KindString, KindMedia, KindArray, KindObject, KindMap:
		return true
	}
	return false
}
