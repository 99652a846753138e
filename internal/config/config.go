// Package config loads the collatz CLI settings.
//
// Sources are layered, later ones winning:
//  1. built-in defaults
//  2. an optional YAML file (COLLATZ_CONFIG, else collatz.yaml in the working directory)
//  3. COLLATZ_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"
)

// PathEnvVar names the environment variable that points at a YAML config file.
const PathEnvVar = "COLLATZ_CONFIG"

// DefaultPath is tried when PathEnvVar is unset.
const DefaultPath = "collatz.yaml"

type Config struct {
	Engine EngineConfig `koanf:"engine"`
	Batch  BatchConfig  `koanf:"batch"`
	Log    LogConfig    `koanf:"log"`
}

type EngineConfig struct {
	Capacity  int    `koanf:"capacity"`
	StepLimit uint64 `koanf:"step_limit"` // 0 = unbounded
	// OverflowEntries sizes the cache for values past the memo table; 0 disables it.
	OverflowEntries int64 `koanf:"overflow_entries"`
}

type BatchConfig struct {
	Workers    int    `koanf:"workers"`
	BufferSize int    `koanf:"buffer_size"`
	TableSize  uint32 `koanf:"table_size"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

func defaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Capacity:        100,
			StepLimit:       0,
			OverflowEntries: 0,
		},
		Batch: BatchConfig{
			Workers:    1,
			BufferSize: 64,
			TableSize:  4096,
		},
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

var envMappings = map[string]string{
	"COLLATZ_CAPACITY":         "engine.capacity",
	"COLLATZ_STEP_LIMIT":       "engine.step_limit",
	"COLLATZ_OVERFLOW_ENTRIES": "engine.overflow_entries",
	"COLLATZ_WORKERS":          "batch.workers",
	"COLLATZ_BUFFER_SIZE":      "batch.buffer_size",
	"COLLATZ_TABLE_SIZE":       "batch.table_size",
	"COLLATZ_LOG_LEVEL":        "log.level",
	"COLLATZ_LOG_DEVELOPMENT":  "log.development",
}

// envTransformFunc maps known variables to config paths. Anything else,
// COLLATZ_CONFIG included, maps to "" and is skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToUpper(key)]
}

// Load reads defaults, the config file if one exists, and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("COLLATZ_", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the file named by PathEnvVar, which must exist, or
// DefaultPath if it exists, or "".
func findConfigFile() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("config file from %s: %w", PathEnvVar, err)
		}
		return p, nil
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath, nil
	}
	return "", nil
}

var ErrInvalidConfig = errors.New("invalid configuration")

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	invalid := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Engine.Capacity < 1 {
		invalid("engine.capacity must be at least 1, got %d", c.Engine.Capacity)
	}
	if c.Engine.OverflowEntries < 0 {
		invalid("engine.overflow_entries must not be negative, got %d", c.Engine.OverflowEntries)
	}
	if c.Batch.Workers < 1 {
		invalid("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Batch.BufferSize < 1 {
		invalid("batch.buffer_size must be at least 1, got %d", c.Batch.BufferSize)
	}
	if c.Batch.TableSize == 0 {
		invalid("batch.table_size must be at least 1")
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		invalid("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return err
}
