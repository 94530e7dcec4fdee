// Package csvcodec reads and writes the three-column translation CSV.
//
// The format is deliberately not RFC 4180. Writing strips every double quote
// and comma from a cell instead of quoting it. Reading splits each line on its
// first two commas only, so the value column may contain commas that the
// writer would have removed. Existing files depend on both behaviors.
package csvcodec

import (
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/convert-translations/internal/errors"
	"github.com/mcncl/convert-translations/internal/models"
)

// Header is the literal first line of every file written
const Header = "key,english value,value"

// MinColumns is the least number of comma separated header columns accepted
const MinColumns = 3

var stripper = strings.NewReplacer(`"`, "", ",", "")

// Escape renders a cell: null becomes empty, quotes and commas are removed.
func Escape(s models.Scalar) string {
	return stripper.Replace(s.String())
}

// Serialize renders rows under the fixed header, one newline-terminated line each.
func Serialize(rows []models.Row) string {
	var b strings.Builder
	// strings.Builder never returns a write error
	_ = Write(&b, rows)
	return b.String()
}

// Write streams the serialized rows to w
func Write(w io.Writer, rows []models.Row) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		line := Escape(models.String(row.Key)) + "," + Escape(row.English) + "," + Escape(row.Value) + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads rows from text. Lines end in "\n" or "\r\n"; blank lines are
// skipped and the first remaining line is the header. A line with fewer than
// two commas leaves the missing columns empty. All cells are strings.
func Parse(text string) ([]models.Row, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return []models.Row{}, nil
	}

	if columns := strings.Count(lines[0], ",") + 1; columns < MinColumns {
		return nil, errors.NewCSVError(
			fmt.Sprintf("header has %d columns", columns),
			errors.ErrCSVColumns,
		)
	}

	rows := make([]models.Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, parseLine(line))
	}
	return rows, nil
}

func parseLine(line string) models.Row {
	key, rest, found := strings.Cut(line, ",")
	if !found {
		return models.Row{Key: key, English: models.String(""), Value: models.String("")}
	}
	english, value, _ := strings.Cut(rest, ",")
	return models.Row{
		Key:     key,
		English: models.String(english),
		Value:   models.String(value),
	}
}
