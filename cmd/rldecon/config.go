package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/cwbudde/algo-decon/internal/pipeline"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	pipeline.Config `mapstructure:",squash"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment. JSON, YAML and
// TOML files are accepted.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	defaults := pipeline.DefaultDeconConfig()

	// Set defaults
	v.SetDefault("paths.root", ".")
	v.SetDefault("paths.psf.dir", "")
	v.SetDefault("decon.method", defaults.Method)
	v.SetDefault("decon.iterations", defaults.Iterations)
	v.SetDefault("decon.boundary", defaults.Boundary)
	v.SetDefault("decon.engine", defaults.Engine)
	v.SetDefault("decon.workers", 0)
	v.SetDefault("decon.epsilon", 0.0)
	v.SetDefault("decon.subdir", defaults.Subdir)
	v.SetDefault("decon.tag", defaults.Tag)
	v.SetDefault("decon.settings_suffix", defaults.SettingsSuffix)
	v.SetDefault("decon.pattern", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("dry_run", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("RLDECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
