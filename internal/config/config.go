// Package config loads prioctl settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"prio-field/internal/logging"
)

const (
	defaultField    = 64
	defaultShares   = 2
	defaultDBPath   = "prio.db"
	defaultLogLevel = "info"
	defaultSamples  = 10000
)

// Config is the prioctl configuration.
type Config struct {
	// Field is the bit width of the field: 32, 64, 80 or 126.
	Field int `toml:"field" yaml:"field"`

	// Shares is the default number of shares produced by split.
	Shares int `toml:"shares" yaml:"shares"`

	// Key seeds a deterministic PRNG when non-empty. Only for tests and demos.
	Key string `toml:"key" yaml:"key"`

	Store   Store   `toml:"store" yaml:"store"`
	Logging Logging `toml:"logging" yaml:"logging"`
	Sample  Sample  `toml:"sample" yaml:"sample"`
}

// Store configures the share database.
type Store struct {
	Path string `toml:"path" yaml:"path"`
}

// Logging configures the logger.
type Logging struct {
	Level string `toml:"level" yaml:"level"`
}

// Sample configures the sample subcommand.
type Sample struct {
	Count int `toml:"count" yaml:"count"`
	// Chart is an HTML output path for the histogram; empty disables it.
	Chart string `toml:"chart" yaml:"chart"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Field:   defaultField,
		Shares:  defaultShares,
		Store:   Store{Path: defaultDBPath},
		Logging: Logging{Level: defaultLogLevel},
		Sample:  Sample{Count: defaultSamples},
	}
}

// FixupAndValidate fills zero values with defaults and checks the result.
func (c *Config) FixupAndValidate() error {
	if c.Field == 0 {
		c.Field = defaultField
	}
	switch c.Field {
	case 32, 64, 80, 126:
	default:
		return fmt.Errorf("config: field width %d is not one of 32, 64, 80, 126", c.Field)
	}
	if c.Shares == 0 {
		c.Shares = defaultShares
	}
	if c.Shares < 1 {
		return fmt.Errorf("config: shares must be positive, got %d", c.Shares)
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultDBPath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Sample.Count == 0 {
		c.Sample.Count = defaultSamples
	}
	if c.Sample.Count < 0 {
		return errors.New("config: sample count must be positive")
	}
	return nil
}

// Load parses b in the given format ("toml" or "yaml") and validates it.
func Load(b []byte, format string) (*Config, error) {
	cfg := Default()
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(b, cfg)
	case "yaml":
		err = yaml.Unmarshal(b, cfg)
	default:
		return nil, fmt.Errorf("config: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", format, err)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads path, choosing the format from its extension.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return Load(b, "toml")
	case ".yaml", ".yml":
		return Load(b, "yaml")
	default:
		return nil, fmt.Errorf("config: cannot infer format of %s", path)
	}
}
