// Package logging provides structured logging for the signup service.
// It builds a log/slog logger from a small YAML-friendly Config and keeps the
// level in a slog.LevelVar so it can be changed while the server runs.
//
// Example usage:
//
//	logger, err := logging.New(logging.Config{
//		Level:  "info",
//		Format: "json",
//	})
//	logger.Info("student signed up", "activity", "Chess Club", "email", email)
//	_ = logger.SetLevel("debug")
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level sets the minimum log level. Valid values: debug, info, warn, error
	Level string `yaml:"level"`
	// Format sets the output format. Valid values: json, text
	Format string `yaml:"format"`
	// Output sets the output destination. Valid values: stdout, stderr, or a file path
	Output string `yaml:"output"`
	// AddSource adds source code position to log records
	AddSource bool `yaml:"add_source"`
}

// Logger wraps slog.Logger with a level that can be changed at runtime.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// New creates a new logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	cfg.setDefaults()

	writer, err := getWriter(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to get output writer: %w", err)
	}
	return NewWithWriter(cfg, writer)
}

// NewWithWriter creates a logger that writes to w, ignoring cfg.Output.
func NewWithWriter(cfg Config, w io.Writer) (*Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	cfg.setDefaults()

	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	levelVar := &slog.LevelVar{}
	levelVar.Set(lvl)

	opts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return &Logger{
		Logger: slog.New(handler),
		level:  levelVar,
	}, nil
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	l.level.Set(lvl)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// validate checks if the configuration is valid.
func (cfg *Config) validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if cfg.Level != "" && !slices.Contains(validLevels, strings.ToLower(cfg.Level)) {
		return fmt.Errorf("level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "text"}
	if cfg.Format != "" && !slices.Contains(validFormats, cfg.Format) {
		return fmt.Errorf("format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}

// setDefaults sets default values for unset configuration fields.
func (cfg *Config) setDefaults() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// parseLevel converts a string level to slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level: %s", level)
	}
}

// getWriter returns an io.Writer for the given output configuration.
func getWriter(output string) (io.Writer, error) {
	switch output {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", output, err)
		}
		return file, nil
	}
}
