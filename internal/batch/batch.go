// Package batch resolves input paths, pairs reference files, computes output
// locations and drives the converter over single files or whole directories.
package batch

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/convert-translations/internal/converter"
	"github.com/mcncl/convert-translations/internal/csvcodec"
	"github.com/mcncl/convert-translations/internal/errors"
	"github.com/mcncl/convert-translations/internal/formatter"
	"github.com/mcncl/convert-translations/internal/models"
	"github.com/mcncl/convert-translations/internal/parser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	jsonExt = ".json"
	csvExt  = ".csv"

	// processedPrefix names the output directory when it would otherwise be the input directory
	processedPrefix = "processed_"
)

// Direction names the conversion applied to a file
type Direction string

const (
	DirectionJSONToCSV Direction = "json -> csv"
	DirectionCSVToJSON Direction = "csv -> json"
)

// Outcome tells whether a file produced output
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
)

// Result describes one converted file
type Result struct {
	Input     string
	Reference string
	Output    string
	Direction Direction
	Rows      int
	Outcome   Outcome
}

// Options configures a run. Relative paths resolve against WorkDir, which
// defaults to the process working directory.
type Options struct {
	Path       string
	Reference  string
	OnlyNeeded bool
	Output     string
	Jobs       int
	WorkDir    string
}

// Runner converts files and reports each outcome
type Runner struct {
	converter *converter.Converter
	formatter *formatter.Formatter
	reporter  *Reporter
	logger    *zap.Logger
}

// NewRunner creates a Runner
func NewRunner(conv *converter.Converter, reporter *Reporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		converter: conv,
		formatter: formatter.NewFormatter(),
		reporter:  reporter,
		logger:    logger,
	}
}

// task converts one file
type task struct {
	input     string
	reference string
	outputDir string
}

// Run converts opts.Path, which is a .json or .csv file or a directory
// holding only one of the two. The first failing file aborts the run.
func (r *Runner) Run(ctx context.Context, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.NewInputError("argument path is required", errors.ErrMissingPath)
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.NewInputError("failed to determine working directory", err)
		}
		workDir = wd
	}

	path := resolve(workDir, opts.Path)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("path does not exist: %s", opts.Path), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to access '%s'", opts.Path), err)
	}

	reference := ""
	if opts.Reference != "" {
		reference = resolve(workDir, opts.Reference)
	}

	var tasks []task
	var direction Direction
	switch {
	case info.Mode().IsRegular():
		direction, tasks, err = r.planFile(path, reference, workDir, opts)
	case info.IsDir():
		direction, tasks, err = r.planDirectory(path, reference, workDir, opts)
	default:
		err = errors.NewInputError(fmt.Sprintf("argument must be a file or directory: %s", opts.Path), errors.ErrInvalidFilePath)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("planned conversion",
		zap.String("path", path),
		zap.String("direction", string(direction)),
		zap.Int("files", len(tasks)),
		zap.Int("jobs", opts.Jobs),
	)
	return r.execute(ctx, direction, tasks, opts)
}

func (r *Runner) planFile(path, reference, workDir string, opts Options) (Direction, []task, error) {
	var direction Direction
	switch {
	case isJSON(path):
		if reference != "" && (!isFile(reference) || !isJSON(reference)) {
			return "", nil, errors.NewInputError(
				fmt.Sprintf("reference path must be a .json file when argument is a file: %s", opts.Reference),
				errors.ErrReferenceMismatch,
			)
		}
		direction = DirectionJSONToCSV
	case isCSV(path):
		reference = ""
		direction = DirectionCSVToJSON
	default:
		return "", nil, errors.NewInputError(fmt.Sprintf("unsupported file: %s", opts.Path), errors.ErrUnsupportedFile)
	}

	outputDir := workDir
	if opts.Output != "" {
		outputDir = resolve(workDir, opts.Output)
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return "", nil, errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", outputDir), err)
		}
	}
	return direction, []task{{input: path, reference: reference, outputDir: outputDir}}, nil
}

func (r *Runner) planDirectory(dir, reference, workDir string, opts Options) (Direction, []task, error) {
	if reference != "" && !isDir(reference) {
		return "", nil, errors.NewInputError(
			fmt.Sprintf("reference path must be a directory when argument is a directory: %s", opts.Reference),
			errors.ErrReferenceMismatch,
		)
	}

	files, err := listFiles(dir)
	if err != nil {
		return "", nil, errors.NewInputError(fmt.Sprintf("failed to list '%s'", opts.Path), err)
	}
	if len(files) == 0 {
		return "", nil, errors.NewInputError(fmt.Sprintf("no files in directory: %s", opts.Path), errors.ErrEmptyDirectory)
	}

	allJSON, allCSV := true, true
	for _, f := range files {
		allJSON = allJSON && isJSON(f)
		allCSV = allCSV && isCSV(f)
	}
	if !allJSON && !allCSV {
		return "", nil, errors.NewInputError(fmt.Sprintf("mixed files in directory: %s", opts.Path), errors.ErrMixedDirectory)
	}

	var refFiles []string
	if allJSON && reference != "" {
		refFiles, err = listFiles(reference)
		if err != nil {
			return "", nil, errors.NewInputError(fmt.Sprintf("failed to list '%s'", opts.Reference), err)
		}
		if len(refFiles) != len(files) {
			return "", nil, errors.NewInputError(
				fmt.Sprintf("reference directory has %d files, argument directory has %d", len(refFiles), len(files)),
				errors.ErrReferenceMismatch,
			)
		}
		for _, f := range refFiles {
			if !isJSON(f) {
				return "", nil, errors.NewInputError(
					fmt.Sprintf("reference directory must contain only .json files: %s", f),
					errors.ErrReferenceMismatch,
				)
			}
		}
	}

	outputDir := OutputDir(dir, workDir, opts.Output)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", outputDir), err)
	}

	direction := DirectionCSVToJSON
	if allJSON {
		direction = DirectionJSONToCSV
	}

	// Reference files pair with inputs by sorted position, not by name
	tasks := make([]task, len(files))
	for i, f := range files {
		tasks[i] = task{input: filepath.Join(dir, f), outputDir: outputDir}
		if refFiles != nil {
			tasks[i].reference = filepath.Join(reference, refFiles[i])
		}
	}
	return direction, tasks, nil
}

func (r *Runner) execute(ctx context.Context, direction Direction, tasks []task, opts Options) ([]Result, error) {
	results := make([]Result, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			if direction == DirectionJSONToCSV {
				results[i], err = r.jsonToCSV(t, opts.OnlyNeeded)
			} else {
				results[i], err = r.csvToJSON(t)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) jsonToCSV(t task, onlyNeeded bool) (Result, error) {
	result := Result{
		Input:     t.input,
		Reference: t.reference,
		Direction: DirectionJSONToCSV,
	}

	source, err := readJSON(t.input, "")
	if err != nil {
		return result, err
	}

	var ref *models.Value
	if t.reference != "" {
		parsed, err := readJSON(t.reference, "reference file ")
		if err != nil {
			return result, err
		}
		ref = &parsed
	}

	rows, err := r.converter.JSONToCSV(source, ref, onlyNeeded)
	if stderrors.Is(err, converter.ErrNothingToExport) {
		result.Outcome = OutcomeSkipped
		r.reporter.Skipped(t.input)
		return result, nil
	}
	if err != nil {
		return result, errors.NewConversionError(fmt.Sprintf("failed to convert '%s'", t.input), err)
	}

	result.Output = filepath.Join(t.outputDir, BaseName(t.input, jsonExt)+csvExt)
	result.Rows = len(rows)
	if err := writeText(result.Output, csvcodec.Serialize(rows)); err != nil {
		return result, err
	}
	result.Outcome = OutcomeWritten
	r.reporter.Wrote(result.Output)
	return result, nil
}

func (r *Runner) csvToJSON(t task) (Result, error) {
	result := Result{
		Input:     t.input,
		Direction: DirectionCSVToJSON,
	}

	data, err := readText(t.input)
	if err != nil {
		return result, err
	}

	rows, err := csvcodec.Parse(string(data))
	if err != nil {
		return result, errors.NewCSVError(fmt.Sprintf("invalid CSV in %s", t.input), err)
	}

	out, err := r.formatter.Format(r.converter.CSVToJSON(rows))
	if err != nil {
		return result, errors.NewConversionError(fmt.Sprintf("failed to render JSON for '%s'", t.input), err)
	}

	result.Output = filepath.Join(t.outputDir, BaseName(t.input, csvExt)+jsonExt)
	result.Rows = len(rows)
	if err := writeText(result.Output, out); err != nil {
		return result, err
	}
	result.Outcome = OutcomeWritten
	r.reporter.Wrote(result.Output)
	return result, nil
}

func readJSON(path, label string) (models.Value, error) {
	data, err := readText(path)
	if err != nil {
		return models.Value{}, err
	}
	value, err := parser.ParseBytes(data)
	if err != nil {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("invalid JSON in %s%s", label, path), err)
	}
	return value, nil
}

// OutputDir returns where a directory run writes. A user supplied output is
// used as given; otherwise the input directory's name under workDir, with a
// processed_ prefix when that would be the input directory itself.
func OutputDir(dir, workDir, output string) string {
	if output != "" {
		return resolve(workDir, output)
	}
	base := filepath.Base(dir)
	out := filepath.Join(workDir, base)
	if samePath(dir, out) {
		out = filepath.Join(workDir, processedPrefix+base)
	}
	return out
}

// BaseName strips the directory and, case-insensitively, ext from path.
func BaseName(path, ext string) string {
	name := filepath.Base(path)
	if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

func samePath(a, b string) bool {
	return realPath(a) == realPath(b)
}

func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

func isJSON(path string) bool {
	return strings.HasSuffix(path, jsonExt)
}

func isCSV(path string) bool {
	return strings.HasSuffix(path, csvExt)
}
