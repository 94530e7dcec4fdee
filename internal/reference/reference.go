// Package reference compares a flattened source against a flattened
// reference translation and decides what gets exported.
package reference

import (
	"github.com/mcncl/convert-translations/internal/flatten"
	"github.com/mcncl/convert-translations/internal/models"
)

// Comparison classifies one key of the source against the reference.
type Comparison int

const (
	// AbsentFromReference means the reference has no entry for the key
	AbsentFromReference Comparison = iota
	// ReferenceBlank means the reference holds the empty string
	ReferenceBlank
	// ReferenceEqual means the reference holds the source value
	ReferenceEqual
	// ReferenceDiffers means the reference holds a distinct translation
	ReferenceDiffers
)

// String returns a readable name for the comparison
func (c Comparison) String() string {
	switch c {
	case AbsentFromReference:
		return "absent-from-reference"
	case ReferenceBlank:
		return "reference-blank"
	case ReferenceEqual:
		return "reference-equal"
	case ReferenceDiffers:
		return "reference-differs"
	default:
		return "unknown"
	}
}

// Classify compares the source and reference values stored under key.
// A key missing from source compares as null.
func Classify(key string, source, ref *flatten.FlatMap) Comparison {
	refValue, ok := ref.Get(key)
	if !ok {
		return AbsentFromReference
	}
	if refValue.Kind == models.KindString && refValue.Text == "" {
		return ReferenceBlank
	}
	sourceValue, _ := source.Get(key)
	if refValue.Equal(sourceValue) {
		return ReferenceEqual
	}
	return ReferenceDiffers
}

// ShouldInclude reports whether key still needs translating, which is every
// case except a reference that already holds a distinct value.
func ShouldInclude(key string, source, ref *flatten.FlatMap) bool {
	return Classify(key, source, ref) != ReferenceDiffers
}

// Filter returns the entries of source that ShouldInclude keeps, in source order.
func Filter(source, ref *flatten.FlatMap) *flatten.FlatMap {
	out := flatten.NewFlatMap()
	source.Range(func(key string, value models.Scalar) bool {
		if ShouldInclude(key, source, ref) {
			out.Set(key, value)
		}
		return true
	})
	return out
}

// ProjectToRows builds one row per entry of flat. The value column carries the
// reference value when the reference has the key and its value differs from
// the english column; otherwise it is empty. ref may be nil.
func ProjectToRows(flat, ref *flatten.FlatMap) []models.Row {
	rows := make([]models.Row, 0, flat.Len())
	flat.Range(func(key string, english models.Scalar) bool {
		value := models.String("")
		if refValue, ok := ref.Get(key); ok && !refValue.Equal(english) {
			value = refValue
		}
		rows = append(rows, models.Row{Key: key, English: english, Value: value})
		return true
	})
	return rows
}
