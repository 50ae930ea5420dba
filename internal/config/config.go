// Package config holds the tier capacities and ages for a recall engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all recall configuration.
type Config struct {
	Namespace  string `yaml:"namespace"`
	Dimensions int    `yaml:"dimensions"`
	// VectorCache is how many vectors to memoize by text. Zero disables it.
	VectorCache int           `yaml:"vector_cache"`
	DBPath      string        `yaml:"db_path"`
	Hot         HotConfig     `yaml:"hot"`
	Warm        AgedConfig    `yaml:"warm"`
	Cold        AgedConfig    `yaml:"cold"`
	Archive     ArchiveConfig `yaml:"archive"`
}

// HotConfig bounds the in-process tier.
type HotConfig struct {
	MaxEntries int           `yaml:"max_entries"`
	MaxTokens  int           `yaml:"max_tokens"`
	MaxAge     time.Duration `yaml:"max_age"`
}

// AgedConfig bounds a durable tier by age and count.
type AgedConfig struct {
	MaxAgeDays int `yaml:"max_age_days"`
	MaxEntries int `yaml:"max_entries"`
}

// MaxAge returns MaxAgeDays as a duration.
func (a AgedConfig) MaxAge() time.Duration {
	return time.Duration(a.MaxAgeDays) * 24 * time.Hour
}

// ArchiveConfig bounds the archive tier. Unbounded disables compaction of
// the archive entirely; MaxEntries is then ignored.
type ArchiveConfig struct {
	MaxEntries int  `yaml:"max_entries"`
	Unbounded  bool `yaml:"unbounded"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Namespace:   "default",
		Dimensions:  384,
		VectorCache: 4096,
		Hot: HotConfig{
			MaxEntries: 100,
			MaxTokens:  50000,
			MaxAge:     5 * time.Minute,
		},
		Warm: AgedConfig{
			MaxAgeDays: 7,
			MaxEntries: 1000,
		},
		Cold: AgedConfig{
			MaxAgeDays: 30,
			MaxEntries: 5000,
		},
		Archive: ArchiveConfig{
			MaxEntries: 10000,
		},
	}
}

// DefaultDBPath returns the default database path: ~/.agent-recall/recall.db
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agent-recall", "recall.db")
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects capacities and ages that cannot be enforced.
func (c *Config) Validate() error {
	switch {
	case c.Namespace == "":
		return fmt.Errorf("%w: namespace is required", ErrInvalid)
	case c.Dimensions <= 0:
		return fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalid, c.Dimensions)
	case c.VectorCache < 0:
		return fmt.Errorf("%w: vector_cache must not be negative, got %d", ErrInvalid, c.VectorCache)
	case c.Hot.MaxEntries <= 0:
		return fmt.Errorf("%w: hot.max_entries must be positive, got %d", ErrInvalid, c.Hot.MaxEntries)
	case c.Hot.MaxTokens <= 0:
		return fmt.Errorf("%w: hot.max_tokens must be positive, got %d", ErrInvalid, c.Hot.MaxTokens)
	case c.Hot.MaxAge < 0:
		return fmt.Errorf("%w: hot.max_age must not be negative, got %s", ErrInvalid, c.Hot.MaxAge)
	}

	for _, t := range []struct {
		name string
		cfg  AgedConfig
	}{{"warm", c.Warm}, {"cold", c.Cold}} {
		if t.cfg.MaxAgeDays < 0 {
			return fmt.Errorf("%w: %s.max_age_days must not be negative, got %d", ErrInvalid, t.name, t.cfg.MaxAgeDays)
		}
		if t.cfg.MaxEntries <= 0 {
			return fmt.Errorf("%w: %s.max_entries must be positive, got %d", ErrInvalid, t.name, t.cfg.MaxEntries)
		}
	}

	if !c.Archive.Unbounded && c.Archive.MaxEntries <= 0 {
		return fmt.Errorf("%w: archive.max_entries must be positive (or set archive.unbounded), got %d",
			ErrInvalid, c.Archive.MaxEntries)
	}
	return nil
}
