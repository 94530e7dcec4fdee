package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/convert-translations/internal/batch"
	"github.com/mcncl/convert-translations/internal/config"
	"github.com/mcncl/convert-translations/internal/converter"
	"github.com/mcncl/convert-translations/internal/errors"
	"github.com/mcncl/convert-translations/internal/logging"
	"go.uber.org/zap"
)

// CLI defines the command-line interface
var CLI struct {
	Path       string `arg:"" optional:"" help:"A .json or .csv file, or a directory holding only one of the two."`
	Language   string `help:"Reference translations: a .json file, or a directory of them when PATH is a directory." short:"l"`
	OnlyNeeded bool   `help:"Only export keys the reference has not translated yet." short:"n" name:"only-needed"`
	Output     string `help:"Output directory." short:"o"`
	Config     string `help:"Path to a config file. Defaults to the nearest .convert-translations.yml." short:"c" type:"path"`
	Jobs       int    `help:"Number of files converted at once." short:"j"`
	LogLevel   string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	Debug      bool   `help:"Enable debug logging." short:"d"`
	Quiet      bool   `help:"Do not print a line per file." short:"q"`
	Summary    bool   `help:"Print a summary table when done."`
	Version    bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("convert-translations"),
		kong.Description("Convert translation files between nested JSON and flat CSV"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.FatalIfErrorf(err)
	}

	if CLI.Version {
		fmt.Printf("convert-translations version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Debug: cfg.Log.Debug})
	defer func() { _ = logger.Sync() }()

	err = run(&Context{
		Debug:  cfg.Log.Debug,
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
	})
	if err != nil {
		logger.Debug("run failed", zap.Error(err))
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(os.Stderr, "\nFor help, run: convert-translations --help\n")
	os.Exit(1)
}

// loadConfig merges the config file, if any, with command-line flags
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			configPath = config.FindConfigFile(wd)
		}
	}

	return config.LoadConfigWithCLI(configPath, config.CLIOverrides{
		Language:   CLI.Language,
		OnlyNeeded: CLI.OnlyNeeded,
		Output:     CLI.Output,
		Jobs:       CLI.Jobs,
		LogLevel:   CLI.LogLevel,
		Debug:      CLI.Debug,
		Quiet:      CLI.Quiet,
		Summary:    CLI.Summary,
	})
}

// run converts CLI.Path according to ctx.Config
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	reporter := batch.NewReporter(stdout, cfg.Report.Quiet)
	runner := batch.NewRunner(converter.NewConverter(logger), reporter, logger)

	results, err := runner.Run(context.Background(), batch.Options{
		Path:       CLI.Path,
		Reference:  cfg.Language,
		OnlyNeeded: cfg.OnlyNeeded,
		Output:     cfg.Output,
		Jobs:       cfg.Jobs,
	})
	if err != nil {
		return err
	}

	if cfg.Report.Summary {
		if err := reporter.Summary(results); err != nil {
			return errors.NewOutputError("failed to print summary", err)
		}
	}
	return nil
}
