package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/convert-translations/internal/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for convert-translations
type Config struct {
	// Language is a reference file or directory used to fill and filter the value column
	Language   string       `yaml:"language"`
	OnlyNeeded bool         `yaml:"only_needed"`
	Output     string       `yaml:"output"`
	Jobs       int          `yaml:"jobs"`
	Log        LogConfig    `yaml:"log"`
	Report     ReportConfig `yaml:"report"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// ReportConfig controls the status lines printed for each file
type ReportConfig struct {
	Quiet   bool `yaml:"quiet"`
	Summary bool `yaml:"summary"`
}

// CLIOverrides carries flag values. Zero values mean the flag was not given.
type CLIOverrides struct {
	Language   string
	OnlyNeeded bool
	Output     string
	Jobs       int
	LogLevel   string
	Debug      bool
	Quiet      bool
	Summary    bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Jobs: 1,
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in dir and its parents
func FindConfigFile(dir string) string {
	configNames := []string{
		".convert-translations.yml",
		".convert-translations.yaml",
		"convert-translations.yml",
		"convert-translations.yaml",
	}

	currentDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the configuration for values the runner cannot use
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return errors.NewConfigError(fmt.Sprintf("jobs is %d", c.Jobs), errors.ErrInvalidJobs)
	}
	return nil
}

// Apply merges CLI overrides into the config. Flags that were given win
// over file values; booleans can only be switched on from the command line.
func (c *Config) Apply(cli CLIOverrides) {
	if cli.Language != "" {
		c.Language = cli.Language
	}
	if cli.Output != "" {
		c.Output = cli.Output
	}
	if cli.Jobs != 0 {
		c.Jobs = cli.Jobs
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
	if cli.OnlyNeeded {
		c.OnlyNeeded = true
	}
	if cli.Debug {
		c.Log.Debug = true
	}
	if cli.Quiet {
		c.Report.Quiet = true
	}
	if cli.Summary {
		c.Report.Summary = true
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// An empty configPath uses defaults only.
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", configPath), err)
		}
		cfg = fileConfig
	}

	cfg.Apply(cli)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
