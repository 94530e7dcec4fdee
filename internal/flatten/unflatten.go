package flatten

import (
	"strconv"

	"github.com/mcncl/convert-translations/internal/models"
)

// Unflatten rebuilds a value tree from m.
//
// Containers are created the first time a path passes through them: an array
// when the following segment is an index, an object otherwise. The root is an
// array only when every path starts with an index, so numeric top-level keys
// next to named ones stay object keys. A map whose only path is "" yields a
// scalar root. An empty map yields an empty object.
//
// Array indices that are skipped become null elements. A later path that
// needs the other container kind is not reconciled: a leaf in its way is
// replaced by the container, a non-index segment under an array is dropped.
// Both are listed in Report.Conflicts.
func Unflatten(m *FlatMap) (models.Value, Report) {
	var report Report
	if m.Len() == 0 {
		return models.ObjectValue(), report
	}
	if m.Len() == 1 {
		if leaf, ok := m.Get(""); ok {
			return models.ScalarValue(leaf), report
		}
	}

	rootArray := true
	m.Range(func(path string, _ models.Scalar) bool {
		rootArray = IsIndex(Split(path)[0])
		return rootArray
	})

	b := &builder{root: newContainer(rootArray), report: &report}
	m.Range(func(path string, value models.Scalar) bool {
		b.insert(path, value)
		return true
	})
	return b.root.value(), report
}

// node is a mutable tree vertex owned by a single builder.
type node struct {
	container bool
	array     bool
	leaf      models.Scalar
	items     []*node // nil entries are holes
	keys      []string
	fields    map[string]*node
}

func newContainer(array bool) *node {
	n := &node{container: true, array: array}
	if !array {
		n.fields = make(map[string]*node)
	}
	return n
}

func (n *node) child(segment string) *node {
	if n.array {
		if !IsIndex(segment) {
			return nil
		}
		i, _ := strconv.Atoi(segment)
		if i >= len(n.items) {
			return nil
		}
		return n.items[i]
	}
	return n.fields[segment]
}

// put stores c under segment, returning false when an array cannot hold it.
func (n *node) put(segment string, c *node) bool {
	if n.array {
		if !IsIndex(segment) {
			return false
		}
		i, _ := strconv.Atoi(segment)
		for len(n.items) <= i {
			n.items = append(n.items, nil)
		}
		n.items[i] = c
		return true
	}
	if _, ok := n.fields[segment]; !ok {
		n.keys = append(n.keys, segment)
	}
	n.fields[segment] = c
	return true
}

func (n *node) value() models.Value {
	if n == nil {
		return models.ScalarValue(models.Null())
	}
	if !n.container {
		return models.ScalarValue(n.leaf)
	}
	if n.array {
		items := make([]models.Value, len(n.items))
		for i, item := range n.items {
			items[i] = item.value()
		}
		return models.ArrayValue(items...)
	}
	fields := make([]models.Field, 0, len(n.keys))
	for _, k := range n.keys {
		fields = append(fields, models.Field{Key: k, Value: n.fields[k].value()})
	}
	return models.ObjectValue(fields...)
}

type builder struct {
	root   *node
	report *Report
}

func (b *builder) insert(path string, value models.Scalar) {
	segments := Split(path)

	current := b.root
	for i, segment := range segments {
		if i == len(segments)-1 {
			existing := current.child(segment)
			if !current.put(segment, &node{leaf: value}) {
				b.report.Conflicts = append(b.report.Conflicts, path)
				return
			}
			switch {
			case existing == nil:
			case existing.container:
				b.report.Conflicts = append(b.report.Conflicts, path)
			default:
				b.report.Overwritten = append(b.report.Overwritten, path)
			}
			return
		}

		next := current.child(segment)
		if next == nil || !next.container {
			if next != nil {
				b.report.Conflicts = append(b.report.Conflicts, path)
			}
			next = newContainer(IsIndex(segments[i+1]))
			if !current.put(segment, next) {
				b.report.Conflicts = append(b.report.Conflicts, path)
				return
			}
		}
		current = next
	}
}
