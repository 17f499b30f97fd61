package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CYCLING"

// ConfigFileEnv names an explicit configuration file.
const ConfigFileEnv = "CYCLING_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Figures   FiguresConfig   `yaml:"figures" envconfig:"FIGURES"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the race results file
type InputConfig struct {
	File string `yaml:"file" envconfig:"FILE" validate:"required"`
}

// OutputConfig describes where tables and figures are written
type OutputConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Workbook string `yaml:"workbook" envconfig:"WORKBOOK"`
}

// AnalysisConfig contains the statistical settings
type AnalysisConfig struct {
	Alpha        float64 `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	SumOfSquares int     `yaml:"sum_of_squares" envconfig:"SUM_OF_SQUARES" validate:"oneof=2 3"`
}

// FiguresConfig contains chart rendering settings
type FiguresConfig struct {
	DPI  int `yaml:"dpi" envconfig:"DPI" validate:"min=72,max=1200"`
	Bins int `yaml:"bins" envconfig:"BINS" validate:"min=1,max=1000"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics settings
type TelemetryConfig struct {
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Option mutates a loaded configuration before validation. Command line flags
// are applied this way so they take precedence over file and environment.
type Option func(*Config)

// WithInputFile overrides the input file
func WithInputFile(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.Input.File = path
		}
	}
}

// WithOutputDir overrides the output directory
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.Output.Dir = dir
		}
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// CYCLING_* environment variables and the given options, in that order.
// An empty configPath falls back to CYCLING_CONFIG and then the well-known
// locations.
func Load(configPath string, opts ...Option) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = getConfigFilePath()
	}
	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configPath)
		}
	}

	// Fields without a matching variable keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field against its validate tag
func (c *Config) Validate() error {
	v := validator.New()

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.NewConfigError("config validation failed", err)
		}

		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s (%s=%s, got %v)", trimNamespace(fe.Namespace()), fe.Tag(), fe.Param(), fe.Value()))
		}
		return apperrors.NewConfigError("config validation failed", err).
			WithContext("fields", fields)
	}

	return nil
}

// trimNamespace drops the root struct name from a validator namespace.
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		DefaultConfigFile,
		"configs/" + DefaultConfigFile,
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration. With no file, environment or flags
// the program reads cycling.txt and writes into the working directory.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			File: "cycling.txt",
		},
		Output: OutputConfig{
			Dir:      ".",
			Workbook: "cycling_tables.xlsx",
		},
		Analysis: AnalysisConfig{
			Alpha:        0.05,
			SumOfSquares: 2,
		},
		Figures: FiguresConfig{
			DPI:  300,
			Bins: 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/cyclingstats.log",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
		},
	}
}
