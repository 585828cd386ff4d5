// Package config loads griefer configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/INLOpen/scapegoat"
)

// Sentinel validation errors.
var (
	ErrInvalidAlpha     = errors.New("tree alpha must be in (0.5, 1)")
	ErrInvalidCapacity  = errors.New("tree capacity must not be negative")
	ErrInvalidFormat    = errors.New("unsupported output format")
	ErrInvalidLogLevel  = errors.New("unsupported log level")
	ErrInvalidLogFormat = errors.New("unsupported log format")
)

// Default configuration values.
const (
	DefaultCapacity     = 0
	DefaultStrict       = false
	DefaultOutputFormat = "text"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultMetricsAddr  = ""

	envPrefix = "GRIEFER"
)

// Config holds all configuration for the griefer tool.
type Config struct {
	Tree    TreeConfig    `mapstructure:"tree"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TreeConfig configures the scapegoat tree.
type TreeConfig struct {
	Alpha    float64 `mapstructure:"alpha"`
	Capacity int     `mapstructure:"capacity"`
}

// LoaderConfig configures ban-list loading.
type LoaderConfig struct {
	Strict bool `mapstructure:"strict"`
}

// OutputConfig configures query answers.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a viper instance with defaults, config file lookup and
// environment binding set up. Callers may bind flags on it before Load.
func New(configPath string) *viper.Viper {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("griefer")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/griefer")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return viperCfg
}

// Load reads the config file (a missing default file is fine), unmarshals
// and validates the result.
func Load(viperCfg *viper.Viper) (*Config, error) {
	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// LoadConfig is New followed by Load.
func LoadConfig(configPath string) (*Config, error) {
	return Load(New(configPath))
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("tree.alpha", scapegoat.DefaultAlpha)
	viperCfg.SetDefault("tree.capacity", DefaultCapacity)

	viperCfg.SetDefault("loader.strict", DefaultStrict)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("metrics.addr", DefaultMetricsAddr)
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func validateConfig(config *Config) error {
	if config.Tree.Alpha <= 0.5 || config.Tree.Alpha >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidAlpha, config.Tree.Alpha)
	}

	if config.Tree.Capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, config.Tree.Capacity)
	}

	switch config.Output.Format {
	case "text", "table":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	if _, ok := logLevels[strings.ToLower(config.Logging.Level)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// TreeOptions translates the tree section into scapegoat options.
func (c *Config) TreeOptions() []scapegoat.Option {
	return []scapegoat.Option{
		scapegoat.WithAlpha(c.Tree.Alpha),
		scapegoat.WithCapacity(c.Tree.Capacity),
	}
}

// NewLogger builds a slog logger writing to w in the configured format and level.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: logLevels[strings.ToLower(c.Level)]}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
