// =============================================================================
// Coordinate Converter - Configuration Module
// =============================================================================
//
// This module loads the converter settings. Every command-line option has a
// configuration counterpart so that recurring conversions can be described
// once in a file.
//
// SOURCES (later sources override earlier ones):
//   1. Built-in defaults (the historical defaults of the tool)
//   2. YAML file: --config, or coordconv.yaml in the working directory
//   3. Environment: COORDCONV_* variables, optionally from a .env file
//   4. Command-line flags that were set explicitly
//
// EXAMPLE (coordconv.yaml):
//   input:
//     projection: R
//     x_column: 2
//     y_column: 3
//     delimiter: ";"
//     encoding: iso8859-1
//   output:
//     projection: W
//     delimiter: ","
//   log:
//     level: info
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/coordconv/internal/types"
	"github.com/ginjaninja78/coordconv/pkg/utils"
)

// DefaultConfigFile is loaded when no --config flag is given and it exists.
const DefaultConfigFile = "coordconv.yaml"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds every setting of a conversion run.
type Config struct {
	// Input describes the source rows.
	Input InputConfig `yaml:"input"`

	// Output describes the destination rows.
	Output OutputConfig `yaml:"output"`

	// Append copies every input column before the transformed ones.
	Append bool `yaml:"append"`

	// Log controls diagnostic output on stderr.
	Log LogConfig `yaml:"log"`
}

// InputConfig describes how input rows are read.
type InputConfig struct {
	// Projection is the source system: R, S, W or a long name.
	// Default: "R"
	Projection string `yaml:"projection"`

	// XColumn is the 1-based column holding the X coordinate
	// (northing or latitude).
	// Default: 1
	XColumn int `yaml:"x_column"`

	// YColumn is the 1-based column holding the Y coordinate
	// (easting or longitude).
	// Default: 2
	YColumn int `yaml:"y_column"`

	// LabelColumn is the 1-based column copied as the first output column.
	// 0 disables the label column.
	LabelColumn int `yaml:"label_column"`

	// Delimiter separates input fields.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// Encoding is the text encoding of the input.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`
}

// OutputConfig describes how output rows are written.
type OutputConfig struct {
	// Projection is the destination system: R, S, W or a long name.
	// Default: "S"
	Projection string `yaml:"projection"`

	// Delimiter separates output fields.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// Encoding is the text encoding of the output.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// CRLF terminates output lines with "\r\n".
	CRLF bool `yaml:"crlf"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "warn"
	Level string `yaml:"level"`

	// Console switches from JSON lines to human readable output.
	Console bool `yaml:"console"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path and applies defaults.
//
// PARAMETERS:
//   - path: The YAML file to read. When empty, DefaultConfigFile is read if it
//     exists, otherwise only defaults are used.
//
// RETURNS:
//   - The loaded configuration.
//   - A ConfigurationError if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		if !utils.FileExists(DefaultConfigFile) {
			return Default(), nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", types.ErrConfiguration, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %w", types.ErrConfiguration, path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Input.Projection == "" {
		cfg.Input.Projection = "R"
	}
	if cfg.Input.XColumn == 0 {
		cfg.Input.XColumn = 1
	}
	if cfg.Input.YColumn == 0 {
		cfg.Input.YColumn = 2
	}
	if cfg.Input.Delimiter == "" {
		cfg.Input.Delimiter = ";"
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "utf-8"
	}
	if cfg.Output.Projection == "" {
		cfg.Output.Projection = "S"
	}
	if cfg.Output.Delimiter == "" {
		cfg.Output.Delimiter = ";"
	}
	if cfg.Output.Encoding == "" {
		cfg.Output.Encoding = "utf-8"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
}
