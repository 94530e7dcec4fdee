package flatten

import "github.com/mcncl/convert-translations/internal/models"

// FlatMap maps paths to leaf scalars and remembers insertion order.
// Replacing an existing path keeps its original position.
type FlatMap struct {
	keys   []string
	values map[string]models.Scalar
}

// NewFlatMap creates an empty FlatMap
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]models.Scalar)}
}

// Set stores value under path and reports whether an earlier value was replaced.
func (m *FlatMap) Set(path string, value models.Scalar) bool {
	_, exists := m.values[path]
	if !exists {
		m.keys = append(m.keys, path)
	}
	m.values[path] = value
	return exists
}

// Get returns the value stored under path
func (m *FlatMap) Get(path string) (models.Scalar, bool) {
	if m == nil {
		return models.Scalar{}, false
	}
	v, ok := m.values[path]
	return v, ok
}

// Has reports whether path is present
func (m *FlatMap) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Len returns the number of entries
func (m *FlatMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the paths in insertion order
func (m *FlatMap) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *FlatMap) Range(fn func(path string, value models.Scalar) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap returns an unordered copy of the entries
func (m *FlatMap) ToMap() map[string]models.Scalar {
	out := make(map[string]models.Scalar, m.Len())
	m.Range(func(path string, value models.Scalar) bool {
		out[path] = value
		return true
	})
	return out
}
