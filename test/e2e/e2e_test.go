package e2e_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/convert-translations/internal/batch"
	"github.com/mcncl/convert-translations/internal/converter"
	"github.com/mcncl/convert-translations/internal/formatter"
	"github.com/mcncl/convert-translations/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner() *batch.Runner {
	return batch.NewRunner(converter.NewConverter(nil), batch.NewReporter(nil, true), nil)
}

// generateTranslations writes a nested translation file of string leaves
// with sections, plural lists and blank hints
func generateTranslations(t testing.TB, path string, sections, keys int, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	var b strings.Builder
	b.WriteString("{\n")
	for s := 0; s < sections; s++ {
		fmt.Fprintf(&b, "  \"section_%d\": {\n", s)
		for k := 0; k < keys; k++ {
			fmt.Fprintf(&b, "    \"key_%d\": \"Text %d.%d\",\n", k, s, rng.Intn(1000))
		}
		fmt.Fprintf(&b, "    \"plural\": [\"one item\", \"%d items\"],\n", rng.Intn(10)+2)
		b.WriteString("    \"hint\": \"\"\n")
		if s == sections-1 {
			b.WriteString("  }\n")
		} else {
			b.WriteString("  },\n")
		}
	}
	b.WriteString("}")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

// TestEndToEnd_RoundTripThroughFiles exports a large file to CSV and imports
// the CSV again; for string leaves the result must match the pretty-printed
// source
func TestEndToEnd_RoundTripThroughFiles(t *testing.T) {
	work := t.TempDir()
	source := filepath.Join(work, "en.json")
	generateTranslations(t, source, 20, 25, 1)

	runner := newRunner()
	_, err := runner.Run(context.Background(), batch.Options{Path: source, Output: filepath.Join(work, "csv"), WorkDir: work})
	require.NoError(t, err)

	results, err := runner.Run(context.Background(), batch.Options{Path: filepath.Join(work, "csv", "en.csv"), Output: filepath.Join(work, "json"), WorkDir: work})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 20*(25+3), results[0].Rows)

	original, err := os.ReadFile(source)
	require.NoError(t, err)
	tree, err := parser.ParseBytes(original)
	require.NoError(t, err)
	expected, err := formatter.NewFormatter().Format(tree)
	require.NoError(t, err)

	actual, err := os.ReadFile(filepath.Join(work, "json", "en.json"))
	require.NoError(t, err)
	assert.Equal(t, expected, string(actual))
}

// TestEndToEnd_DirectoryWithReference converts a directory in parallel,
// pairing each file with its reference by position
func TestEndToEnd_DirectoryWithReference(t *testing.T) {
	work := t.TempDir()
	srcDir := filepath.Join(work, "en")
	refDir := filepath.Join(work, "fr")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.MkdirAll(refDir, 0o755))

	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("page_%02d.json", i)
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name),
			[]byte(fmt.Sprintf(`{"title": "Page %d", "body": {"intro": "Welcome", "outro": "Bye"}}`, i)), 0o644))

		ref := `{"title": "", "body": {"intro": "Bienvenue"}}`
		if i%2 == 0 {
			ref = fmt.Sprintf(`{"title": "Page %d FR", "body": {"intro": "Bienvenue", "outro": "Au revoir"}}`, i)
		}
		require.NoError(t, os.WriteFile(filepath.Join(refDir, name), []byte(ref), 0o644))
	}

	results, err := newRunner().Run(context.Background(), batch.Options{
		Path:       "en",
		Reference:  "fr",
		OnlyNeeded: true,
		Jobs:       4,
		WorkDir:    work,
	})
	require.NoError(t, err)
	require.Len(t, results, 8)

	outDir := filepath.Join(work, "processed_en")
	for i, res := range results {
		if i%2 == 0 {
			assert.Equal(t, batch.OutcomeSkipped, res.Outcome, res.Input)
			continue
		}
		assert.Equal(t, batch.OutcomeWritten, res.Outcome, res.Input)
		data, err := os.ReadFile(filepath.Join(outDir, fmt.Sprintf("page_%02d.csv", i)))
		require.NoError(t, err)
		expected := fmt.Sprintf("key,english value,value\ntitle,Page %d,\nbody.outro,Bye,\n", i)
		assert.Equal(t, expected, string(data))
	}
}

// TestEndToEnd_EdgeCases runs inputs that stress the path grammar
func TestEndToEnd_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "root array",
			input:    `["a", ["b", "c"]]`,
			expected: "[\n  \"a\",\n  [\n    \"b\",\n    \"c\"\n  ]\n]",
		},
		{
			name:     "unicode text",
			input:    `{"greet": "こんにちは", "emoji": "👋"}`,
			expected: "{\n  \"greet\": \"こんにちは\",\n  \"emoji\": \"👋\"\n}",
		},
		{
			name:     "empty containers vanish",
			input:    `{"a": {}, "b": [], "c": "x"}`,
			expected: "{\n  \"c\": \"x\"\n}",
		},
		{
			name:     "numeric object keys become array indices",
			input:    `{"list": {"0": "zero", "1": "one"}}`,
			expected: "{\n  \"list\": [\n    \"zero\",\n    \"one\"\n  ]\n}",
		},
		{
			name:     "non-string leaves come back as text",
			input:    `{"count": 2, "beta": true, "hint": null}`,
			expected: "{\n  \"count\": \"2\",\n  \"beta\": \"true\",\n  \"hint\": \"\"\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := t.TempDir()
			source := filepath.Join(work, "in.json")
			require.NoError(t, os.WriteFile(source, []byte(tt.input), 0o644))

			runner := newRunner()
			_, err := runner.Run(context.Background(), batch.Options{Path: source, Output: filepath.Join(work, "csv"), WorkDir: work})
			require.NoError(t, err)
			_, err = runner.Run(context.Background(), batch.Options{Path: filepath.Join(work, "csv", "in.csv"), Output: filepath.Join(work, "json"), WorkDir: work})
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(work, "json", "in.json"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}
