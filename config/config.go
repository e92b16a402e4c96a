// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the settings shared by the txstore command and the
// dataset loader.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Config holds the settings for loading, querying and exporting a dataset.
type Config struct {
	// DataPath is the dataset file to load.
	DataPath string `validate:"required"`

	// Limit is the maximum number of records to load. Zero loads all.
	// Default: 1000
	Limit int `validate:"gte=0"`

	// InitialCapacity is the starting capacity of the sequence store.
	// Default: 10000
	InitialCapacity int `validate:"gte=0"`

	// OutputDir is where exports are written.
	OutputDir string `validate:"required"`

	// Formats lists the export formats to write.
	Formats []string `validate:"min=1,dive,oneof=json json.gz mus badger"`

	// Workers is the export worker pool size.
	Workers int `validate:"gte=1"`

	// ShowRows is how many sample rows commands print.
	ShowRows int `validate:"gte=0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithDataPath sets the dataset file.
func WithDataPath(path string) Option {
	return func(c *Config) {
		c.DataPath = path
	}
}

// WithLimit sets the record limit.
func WithLimit(n int) Option {
	return func(c *Config) {
		c.Limit = n
	}
}

// WithInitialCapacity sets the sequence store starting capacity.
func WithInitialCapacity(n int) Option {
	return func(c *Config) {
		c.InitialCapacity = n
	}
}

// WithOutputDir sets the export directory.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithFormats sets the export formats.
func WithFormats(formats ...string) Option {
	return func(c *Config) {
		c.Formats = formats
	}
}

// WithWorkers sets the export worker count.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithShowRows sets the number of sample rows printed.
func WithShowRows(n int) Option {
	return func(c *Config) {
		c.ShowRows = n
	}
}

// WithLogLevel sets the log level name.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// DefaultConfig returns a Config with the defaults of the command line tool.
func DefaultConfig() *Config {
	return &Config{
		DataPath:        "data/financial_fraud_detection_dataset.csv",
		Limit:           1000,
		InitialCapacity: 10000,
		OutputDir:       "output",
		Formats:         []string{"json"},
		Workers:         4,
		ShowRows:        10,
		LogLevel:        "info",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize lowercases the log level and format names.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	for i, f := range c.Formats {
		c.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Param() != "" {
				return fmt.Errorf("%w: %s failed %s=%s", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", name)
}

// Logger builds a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})), nil
}
