// Package config loads binarytree settings from YAML, environment variables
// and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMaxDepth     = errors.New("tree max depth must be positive")
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("invalid logging format")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrInvalidBenchItems   = errors.New("bench items must be positive")
)

// Format names shared by the logging and output sections.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
	FormatYAML  = "yaml"
)

const (
	configName = "binarytree"
	configType = "yaml"
	envPrefix  = "BINARYTREE"
)

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{FormatText, FormatJSON}
	outputFormats = []string{FormatText, FormatTable, FormatYAML}
)

// Config holds all binarytree settings.
type Config struct {
	Tree      TreeConfig      `mapstructure:"tree"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Output    OutputConfig    `mapstructure:"output"`
	Render    RenderConfig    `mapstructure:"render"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Bench     BenchConfig     `mapstructure:"bench"`
}

// TreeConfig controls tree construction.
type TreeConfig struct {
	// MaxDepth bounds recursion in every tree operation.
	MaxDepth int `mapstructure:"max_depth"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig controls how trees are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// RenderConfig controls HTML rendering.
type RenderConfig struct {
	Title string `mapstructure:"title"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`

	// MetricsAddr is the listen address for the /metrics endpoint; empty
	// disables it.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// BenchConfig controls the bench workload.
type BenchConfig struct {
	Items int   `mapstructure:"items"`
	Seed  int64 `mapstructure:"seed"`
}

// LoadConfig loads configuration from file, environment and defaults.
// An explicit configPath must exist. Otherwise binarytree.yaml is searched in
// the working directory, ./config and $HOME/.config/binarytree, and a
// missing file means defaults.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Tree:    TreeConfig{MaxDepth: DefaultTreeMaxDepth},
		Logging: LoggingConfig{Level: DefaultLoggingLevel, Format: DefaultLoggingFormat},
		Output:  OutputConfig{Format: DefaultOutputFormat, Color: DefaultOutputColor},
		Render:  RenderConfig{Title: DefaultRenderTitle},
		Bench:   BenchConfig{Items: DefaultBenchItems, Seed: DefaultBenchSeed},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("tree.max_depth", DefaultTreeMaxDepth)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)

	viperCfg.SetDefault("render.title", DefaultRenderTitle)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_addr", "")

	viperCfg.SetDefault("bench.items", DefaultBenchItems)
	viperCfg.SetDefault("bench.seed", DefaultBenchSeed)
}

// Validate checks every section, reporting the first invalid value.
func (c *Config) Validate() error {
	if c.Tree.MaxDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDepth, c.Tree.MaxDepth)
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format)
	}

	if c.Bench.Items <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBenchItems, c.Bench.Items)
	}

	return nil
}
