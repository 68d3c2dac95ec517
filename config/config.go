// Package config loads the demo server/CLI's YAML configuration,
// following the teacher's config.Config / Parse() shape: a thin
// YAML-shaped struct plus a Parse method that turns it into the
// concrete values the rest of the program needs.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/yaml.v3"
)

// Config is the top-level document the demo server/CLI reads from disk.
type Config struct {
	Logger LoggerConfig `yaml:"logger"`
	Server ServerConfig `yaml:"server"`
}

// LoggerConfig mirrors the teacher's logger config shape exactly: a
// level plus an output format, dispatched to slog handlers.
type LoggerConfig struct {
	Level string `yaml:"level"`
	Type  string `yaml:"type"`
}

// ServerConfig configures the demo HTTP surface and the query compiler
// it wraps (api.Config carries the network-facing bits; the fields here
// are specific to wiring fancysearch.Compile).
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	DefaultField  string `yaml:"default_field"`
	FieldMetaPath string `yaml:"field_meta_path"`
}

// Parse builds the program's logger. Unlike the teacher's Parse (which
// also assembles an engine.Config from Storage/Processors/Sources),
// FieldMeta loading is a separate concern handled by LoadFieldMeta/
// WatchFieldMeta below, since it is meant to be hot-reloadable
// independent of the rest of the config document.
func (cfg Config) Parse() (*slog.Logger, error) {
	logger, err := parseLoggerConfig(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}

	return logger, nil
}

func parseLoggerConfig(cfg LoggerConfig) (*slog.Logger, error) {
	var handler slog.Handler

	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	w := os.Stdout
	switch cfg.Type {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "colored-text":
		handler = tint.NewHandler(w, &tint.Options{Level: level, AddSource: true})
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Type)
	}

	return slog.New(handler), nil
}

// Load reads and parses a Config document from path.
func Load(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config file: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file: %w", err)
	}

	return cfg, nil
}
