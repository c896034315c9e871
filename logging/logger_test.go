package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid json config",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "valid text config",
			config: Config{
				Level:  "debug",
				Format: "text",
				Output: "stderr",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: Config{
				Level:  "invalid",
				Format: "json",
				Output: "stdout",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: Config{
				Level:  "info",
				Format: "invalid",
				Output: "stdout",
			},
			wantErr: true,
		},
		{
			name:   "defaults applied",
			config: Config{
				// No fields set, should use defaults
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Level:  "info",
				Format: "json",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: Config{
				Level:  "trace",
				Format: "json",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: Config{
				Level:  "info",
				Format: "xml",
			},
			wantErr: true,
		},
		{
			name:    "empty config (should pass with defaults)",
			config:  Config{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"DEBUG", slog.LevelDebug, false},
		{"invalid", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && level != tt.expected {
				t.Errorf("parseLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	config := Config{}
	config.setDefaults()

	if config.Level != "info" {
		t.Errorf("default level = %v, want info", config.Level)
	}
	if config.Format != "json" {
		t.Errorf("default format = %v, want json", config.Format)
	}
	if config.Output != "stdout" {
		t.Errorf("default output = %v, want stdout", config.Output)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("student signed up", "activity", "Chess Club")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "student signed up", record["msg"])
	assert.Equal(t, "Chess Club", record["activity"])
	assert.Equal(t, "INFO", record["level"])
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "info", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logger.SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, logger.Level())

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	assert.Error(t, logger.SetLevel("verbose"))
	assert.Equal(t, slog.LevelDebug, logger.Level())
}
