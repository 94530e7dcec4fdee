package flatten

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/mcncl/convert-translations/internal/models"
	"github.com/mcncl/convert-translations/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) models.Value {
	t.Helper()
	v, err := parser.ParseString(text)
	require.NoError(t, err)
	return v
}

func flatOf(pairs ...string) *FlatMap {
	m := NewFlatMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], models.String(pairs[i+1]))
	}
	return m
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *FlatMap
	}{
		{
			name:     "flat object",
			input:    `{"greet": "Hello", "bye": "Goodbye"}`,
			expected: flatOf("greet", "Hello", "bye", "Goodbye"),
		},
		{
			name:     "nested object",
			input:    `{"menu": {"file": {"open": "Open", "close": "Close"}}, "title": "App"}`,
			expected: flatOf("menu.file.open", "Open", "menu.file.close", "Close", "title", "App"),
		},
		{
			name:     "array",
			input:    `{"items": ["a", "b"]}`,
			expected: flatOf("items.0", "a", "items.1", "b"),
		},
		{
			name:     "array of objects",
			input:    `{"steps": [{"title": "One"}, {"title": "Two"}]}`,
			expected: flatOf("steps.0.title", "One", "steps.1.title", "Two"),
		},
		{
			name:     "root array",
			input:    `["x", "y"]`,
			expected: flatOf("0", "x", "1", "y"),
		},
		{
			name:     "root scalar",
			input:    `"just text"`,
			expected: flatOf("", "just text"),
		},
		{
			name:     "empty containers have no leaves",
			input:    `{"a": {}, "b": [], "c": "x"}`,
			expected: flatOf("c", "x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flat, report := Flatten(mustParse(t, tt.input))
			assert.True(t, report.Clean())
			assert.Equal(t, tt.expected.Keys(), flat.Keys())
			assert.Equal(t, tt.expected.ToMap(), flat.ToMap(), spew.Sdump(flat))
		})
	}
}

func TestFlatten_ScalarKinds(t *testing.T) {
	flat, _ := Flatten(mustParse(t, `{"n": 42, "b": true, "z": null, "s": ""}`))

	n, _ := flat.Get("n")
	assert.Equal(t, models.Number("42"), n)
	b, _ := flat.Get("b")
	assert.Equal(t, models.Bool(true), b)
	z, ok := flat.Get("z")
	assert.True(t, ok, "null leaves are kept")
	assert.Equal(t, models.Null(), z)
	s, _ := flat.Get("s")
	assert.Equal(t, models.String(""), s)
}

func TestFlatten_CollisionIsLastWriteWins(t *testing.T) {
	// "a.b" as a literal key and as a nested path map to the same path
	flat, report := Flatten(mustParse(t, `{"a.b": "literal", "a": {"b": "nested"}}`))

	require.Equal(t, 1, flat.Len())
	v, _ := flat.Get("a.b")
	assert.Equal(t, models.String("nested"), v)
	assert.Equal(t, []string{"a.b"}, report.Overwritten)
	assert.False(t, report.Clean())
}

func TestUnflatten_Objects(t *testing.T) {
	value, report := Unflatten(flatOf("menu.file.open", "Open", "menu.edit", "Edit", "title", "App"))
	assert.True(t, report.Clean())

	expected := mustParse(t, `{"menu": {"file": {"open": "Open"}, "edit": "Edit"}, "title": "App"}`)
	assert.Equal(t, expected, value, spew.Sdump(value))
}

func TestUnflatten_ArrayInference(t *testing.T) {
	value, report := Unflatten(flatOf("items.0", "a", "items.1", "b"))
	assert.True(t, report.Clean())

	items, ok := value.Get("items")
	require.True(t, ok)
	assert.Equal(t, models.KindArray, items.Kind, "numeric segments build an array, not an object")
	assert.Equal(t, mustParse(t, `{"items": ["a", "b"]}`), value)
}

func TestUnflatten_RootKinds(t *testing.T) {
	empty, _ := Unflatten(NewFlatMap())
	assert.Equal(t, models.ObjectValue(), empty)

	scalar, _ := Unflatten(flatOf("", "text"))
	assert.Equal(t, models.ScalarValue(models.String("text")), scalar)

	array, _ := Unflatten(flatOf("0", "x", "1", "y"))
	assert.Equal(t, mustParse(t, `["x", "y"]`), array)
}

func TestUnflatten_NumericRootKeysNextToNamedKeys(t *testing.T) {
	tests := []struct {
		name string
		flat *FlatMap
		want string
	}{
		{"index first", flatOf("0", "a", "title", "b"), `{"0": "a", "title": "b"}`},
		{"status code first", flatOf("404", "Not found", "title", "Hi"), `{"404": "Not found", "title": "Hi"}`},
		{"named first", flatOf("title", "Hi", "500", "Oops"), `{"title": "Hi", "500": "Oops"}`},
		{"nested under numeric key", flatOf("404.title", "Gone", "home", "Home"), `{"404": {"title": "Gone"}, "home": "Home"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, report := Unflatten(tt.flat)
			assert.True(t, report.Clean(), spew.Sdump(report))
			assert.Equal(t, mustParse(t, tt.want), value, spew.Sdump(value))
		})
	}
}

func TestUnflatten_EmptyKeyObjectBecomesScalar(t *testing.T) {
	flat, _ := Flatten(mustParse(t, `{"": "x"}`))
	assert.Equal(t, []string{""}, flat.Keys())

	value, _ := Unflatten(flat)
	assert.Equal(t, models.ScalarValue(models.String("x")), value)
}

func TestUnflatten_SparseIndicesLeaveNullHoles(t *testing.T) {
	value, report := Unflatten(flatOf("items.0", "a", "items.3", "d"))
	assert.True(t, report.Clean())
	assert.Equal(t, mustParse(t, `{"items": ["a", null, null, "d"]}`), value)
}

func TestUnflatten_NonCanonicalIndexIsObjectKey(t *testing.T) {
	value, _ := Unflatten(flatOf("codes.01", "x", "codes.99999", "y"))
	assert.Equal(t, mustParse(t, `{"codes": {"01": "x", "99999": "y"}}`), value)
}

func TestUnflatten_ConflictingKinds(t *testing.T) {
	t.Run("object key under array is dropped", func(t *testing.T) {
		value, report := Unflatten(flatOf("list.0", "a", "list.name", "b"))
		assert.Equal(t, mustParse(t, `{"list": ["a"]}`), value)
		assert.Equal(t, []string{"list.name"}, report.Conflicts)
	})

	t.Run("index under object is a key", func(t *testing.T) {
		value, report := Unflatten(flatOf("obj.name", "a", "obj.0", "b"))
		assert.Equal(t, mustParse(t, `{"obj": {"name": "a", "0": "b"}}`), value)
		assert.True(t, report.Clean())
	})

	t.Run("leaf replaced by container", func(t *testing.T) {
		value, report := Unflatten(flatOf("a", "leaf", "a.b", "nested"))
		assert.Equal(t, mustParse(t, `{"a": {"b": "nested"}}`), value)
		assert.Equal(t, []string{"a.b"}, report.Conflicts)
	})

	t.Run("container replaced by leaf", func(t *testing.T) {
		value, report := Unflatten(flatOf("a.b", "nested", "a", "leaf"))
		assert.Equal(t, mustParse(t, `{"a": "leaf"}`), value)
		assert.Equal(t, []string{"a"}, report.Conflicts)
	})
}

func TestRoundTrip_TreeFlattenUnflatten(t *testing.T) {
	inputs := []string{
		`{"greet": "Hello"}`,
		`{"items": ["a", "b"]}`,
		`{"a": {"b": {"c": ["x", {"d": "y"}, ["z", "w"]]}}, "e": 1, "f": false, "g": null}`,
		`[{"k": "v"}, "s"]`,
		`"scalar"`,
		`{"0": "a", "title": "b"}`,
		`{"404": "Not found", "title": "Hi", "errors": {"hint": "Retry", "500": "Oops"}}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree := mustParse(t, input)
			flat, _ := Flatten(tree)
			rebuilt, report := Unflatten(flat)
			assert.True(t, report.Clean())
			assert.Equal(t, tree, rebuilt, spew.Sdump(rebuilt))
		})
	}
}

func TestRoundTrip_FlatMapUnflattenFlatten(t *testing.T) {
	m := flatOf(
		"app.title", "Title",
		"app.menu.0.label", "File",
		"app.menu.1.label", "Edit",
		"footer", "Bye",
	)

	tree, _ := Unflatten(m)
	again, report := Flatten(tree)
	assert.True(t, report.Clean())
	assert.Equal(t, m.Keys(), again.Keys())
	assert.Equal(t, m.ToMap(), again.ToMap())
}

func TestIsIndex(t *testing.T) {
	tests := map[string]bool{
		"0":      true,
		"7":      true,
		"42":     true,
		"65535":  true,
		"65536":  false,
		"01":     false,
		"":       false,
		"-1":     false,
		"1.5":    false,
		"abc":    false,
		"1e3":    false,
		" 1":     false,
		"999999": false,
	}

	for segment, want := range tests {
		assert.Equal(t, want, IsIndex(segment), "IsIndex(%q)", segment)
	}
}

func TestFlatMap_SetKeepsFirstPosition(t *testing.T) {
	m := NewFlatMap()
	assert.False(t, m.Set("a", models.String("1")))
	assert.False(t, m.Set("b", models.String("2")))
	assert.True(t, m.Set("a", models.String("3")))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, models.String("3"), v)
}

func TestFlatMap_NilIsEmpty(t *testing.T) {
	var m *FlatMap
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("x"))
	assert.Nil(t, m.Keys())
}
