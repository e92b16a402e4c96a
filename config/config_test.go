package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "data/financial_fraud_detection_dataset.csv", cfg.DataPath)
	assert.Equal(t, 1000, cfg.Limit)
	assert.Equal(t, 10000, cfg.InitialCapacity)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, []string{"json"}, cfg.Formats)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 10, cfg.ShowRows)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigWithOptions(t *testing.T) {
	cfg := NewConfig(
		WithDataPath("other.csv"),
		WithLimit(0),
		WithInitialCapacity(1),
		WithOutputDir("/tmp/out"),
		WithFormats("json", "mus"),
		WithWorkers(8),
		WithShowRows(3),
		WithLogLevel("debug"),
	)

	assert.Equal(t, "other.csv", cfg.DataPath)
	assert.Equal(t, 0, cfg.Limit)
	assert.Equal(t, 1, cfg.InitialCapacity)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, []string{"json", "mus"}, cfg.Formats)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 3, cfg.ShowRows)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{"defaults", nil, false},
		{"all formats", []Option{WithFormats("json", "json.gz", "mus", "badger")}, false},
		{"upper case normalized", []Option{WithFormats("JSON"), WithLogLevel(" WARN ")}, false},
		{"zero capacity", []Option{WithInitialCapacity(0)}, false},
		{"negative limit", []Option{WithLimit(-1)}, true},
		{"negative capacity", []Option{WithInitialCapacity(-5)}, true},
		{"no workers", []Option{WithWorkers(0)}, true},
		{"negative show", []Option{WithShowRows(-1)}, true},
		{"empty data path", []Option{WithDataPath("")}, true},
		{"empty output dir", []Option{WithOutputDir("")}, true},
		{"no formats", []Option{WithFormats()}, true},
		{"unknown format", []Option{WithFormats("json", "xml")}, true},
		{"bad log level", []Option{WithLogLevel("verbose")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_NamesField(t *testing.T) {
	err := NewConfig(WithWorkers(0)).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workers")
	assert.Contains(t, err.Error(), "gte=1")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"Error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewConfig(WithLogLevel("warn")).Logger(&buf)
	require.NoError(t, err)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("careful", "rows", 3)
	assert.Contains(t, buf.String(), "msg=careful")
	assert.Contains(t, buf.String(), "rows=3")

	_, err = NewConfig(WithLogLevel("loud")).Logger(&buf)
	assert.Error(t, err)
}
