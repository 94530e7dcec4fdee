package models

import (
	"strconv"
)

// Kind tags the variant held by a Value or Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Scalar is a terminal JSON leaf: null, a string, a number or a boolean.
// Text holds the string content, the number literal as it appeared in the
// input, or "true"/"false". The zero Scalar is null.
type Scalar struct {
	Kind Kind
	Text string
}

// Null returns the null scalar
func Null() Scalar {
	return Scalar{Kind: KindNull}
}

// String returns a string scalar
func String(s string) Scalar {
	return Scalar{Kind: KindString, Text: s}
}

// Number returns a number scalar from its JSON literal
func Number(literal string) Scalar {
	return Scalar{Kind: KindNumber, Text: literal}
}

// Bool returns a boolean scalar
func Bool(b bool) Scalar {
	return Scalar{Kind: KindBool, Text: strconv.FormatBool(b)}
}

// String renders the scalar as CSV cell text. Null renders as the empty string.
func (s Scalar) String() string {
	if s.Kind == KindNull {
		return ""
	}
	return s.Text
}

// IsEmpty reports whether the scalar is null or the empty string.
func (s Scalar) IsEmpty() bool {
	return s.Kind == KindNull || (s.Kind == KindString && s.Text == "")
}

// Equal is strict value equality: both kinds must match. Numbers compare by
// numeric value so that 1 and 1.0 are equal.
func (s Scalar) Equal(other Scalar) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Kind == KindNumber {
		a, errA := strconv.ParseFloat(s.Text, 64)
		b, errB := strconv.ParseFloat(other.Text, 64)
		if errA == nil && errB == nil {
			return a == b
		}
	}
	return s.Text == other.Text
}

// Value is a JSON document node. Scalar kinds carry Leaf, KindArray carries
// Items and KindObject carries Fields in insertion order.
type Value struct {
	Kind   Kind
	Leaf   Scalar
	Items  []Value
	Fields []Field
}

// Field is one key/value entry of an object.
type Field struct {
	Key   string
	Value Value
}

// ScalarValue wraps a scalar leaf
func ScalarValue(s Scalar) Value {
	return Value{Kind: s.Kind, Leaf: s}
}

// ArrayValue builds an array node
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// ObjectValue builds an object node
func ObjectValue(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{Kind: KindObject, Fields: fields}
}

// IsScalar reports whether the node is a terminal leaf
func (v Value) IsScalar() bool {
	return v.Kind != KindArray && v.Kind != KindObject
}

// Get returns the value of the first field named key
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Row is one line of the translation CSV.
// English is the source-language value and Value is an override translation;
// an empty Value means "use English".
type Row struct {
	Key     string
	English Scalar
	Value   Scalar
}

// Resolved returns Value when it is non-empty, English otherwise. A null
// Value counts as empty, so a null override never replaces English. Rows
// read from CSV never hold null.
func (r Row) Resolved() Scalar {
	if !r.Value.IsEmpty() {
		return r.Value
	}
	return r.English
}
