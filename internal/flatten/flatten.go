// Package flatten converts value trees to dotted path maps and back.
//
// Paths join segments with "."; a segment that is a canonical decimal index
// ("0", "7", "42", never "07") addresses an array element, any other segment
// an object key. Object keys are not escaped, so a key containing "." yields
// an ambiguous path. Likewise a root scalar and an object whose only key is
// "" both flatten to the single path "", and Unflatten rebuilds the scalar.
//
// Both directions follow a last-write-wins policy: when two leaves map to the
// same path, or when a later path implies a different container kind than
// the one already built, the later write replaces the earlier one. Nothing is
// rejected; every replacement is listed in the returned Report so callers can
// detect it.
package flatten

import (
	"strconv"
	"strings"

	"github.com/mcncl/convert-translations/internal/models"
)

// Separator joins path segments
const Separator = "."

// MaxIndex is the largest segment treated as an array index. Larger numerals
// are object keys, which bounds the holes a single path can open.
const MaxIndex = 1<<16 - 1

// Report lists the paths touched by the last-write-wins policy.
type Report struct {
	// Overwritten holds paths whose earlier leaf was replaced by a later one.
	Overwritten []string
	// Conflicts holds paths whose container kind disagreed with an earlier
	// path, or that could not be placed at all.
	Conflicts []string
}

// Clean reports whether no write was lost
func (r Report) Clean() bool {
	return len(r.Overwritten) == 0 && len(r.Conflicts) == 0
}

// Flatten walks v and returns one entry per leaf, in document order.
// A scalar root maps to the empty path.
func Flatten(v models.Value) (*FlatMap, Report) {
	out := NewFlatMap()
	var report Report
	walk(v, "", out, &report)
	return out, report
}

func walk(v models.Value, prefix string, out *FlatMap, report *Report) {
	switch v.Kind {
	case models.KindArray:
		for i, item := range v.Items {
			walk(item, join(prefix, strconv.Itoa(i)), out, report)
		}
	case models.KindObject:
		for _, f := range v.Fields {
			walk(f.Value, join(prefix, f.Key), out, report)
		}
	default:
		if out.Set(prefix, v.Leaf) {
			report.Overwritten = append(report.Overwritten, prefix)
		}
	}
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + Separator + segment
}

// IsIndex reports whether a path segment addresses an array element
func IsIndex(segment string) bool {
	if segment == "" || len(segment) > len(strconv.Itoa(MaxIndex)) {
		return false
	}
	if len(segment) > 1 && segment[0] == '0' {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(segment)
	return err == nil && n <= MaxIndex
}

// Split breaks a path into its segments
func Split(path string) []string {
	return strings.Split(path, Separator)
}
