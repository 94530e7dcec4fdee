package batch

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Reporter prints one status line per file. It is safe for concurrent use.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool

	wrote   *color.Color
	skipped *color.Color
}

// NewReporter creates a Reporter writing to out. A quiet reporter prints
// nothing from Wrote and Skipped.
func NewReporter(out io.Writer, quiet bool) *Reporter {
	return &Reporter{
		out:     out,
		quiet:   quiet,
		wrote:   color.New(color.FgGreen),
		skipped: color.New(color.FgYellow),
	}
}

// Wrote reports an output file
func (r *Reporter) Wrote(path string) {
	r.line(r.wrote, fmt.Sprintf("Wrote %s", path))
}

// Skipped reports an input that produced no output
func (r *Reporter) Skipped(path string) {
	r.line(r.skipped, fmt.Sprintf("Skipped %s: no needed translations.", path))
}

func (r *Reporter) line(c *color.Color, msg string) {
	if r == nil || r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = c.Fprintln(r.out, msg)
}

// Summary renders a table of results. It is printed even when quiet.
func (r *Reporter) Summary(results []Result) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	table := tablewriter.NewWriter(r.out)
	// The first row doubles as the header
	if err := table.Append([]string{"File", "Direction", "Rows", "Outcome", "Output"}); err != nil {
		return fmt.Errorf("failed to append header row: %w", err)
	}
	for _, res := range results {
		row := []string{res.Input, string(res.Direction), strconv.Itoa(res.Rows), string(res.Outcome), res.Output}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
