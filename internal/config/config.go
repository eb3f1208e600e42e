// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"recipe-cost/internal/errors"
	"recipe-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains resolver settings
	Engine EngineConfig `json:"engine"`

	// Dataset contains recipe dataset settings
	Dataset DatasetConfig `json:"dataset"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains resolver settings
type EngineConfig struct {
	// Memoize caches cost and cheapest-recipe results within one call
	Memoize bool `json:"memoize"`

	// MaxDepth is the recursion ceiling for one call
	MaxDepth int `json:"max_depth"`

	// Parallelism bounds concurrent order resolution in shopping lists
	Parallelism int `json:"parallelism"`
}

// DatasetConfig contains recipe dataset settings
type DatasetConfig struct {
	// Path is the default dataset file
	Path string `json:"path,omitempty"`

	// Format forces a loader (hcl, json, yaml, toml); empty means by extension
	Format string `json:"format,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// NoColor disables terminal styling
	NoColor bool `json:"no_color"`

	// CurrencyPlaces is the number of decimal places shown for costs
	CurrencyPlaces int32 `json:"currency_places"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			Memoize:     true,
			MaxDepth:    10000,
			Parallelism: 4,
		},
		Output: OutputConfig{
			DefaultFormat:  "cli",
			NoColor:        false,
			CurrencyPlaces: 2,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.recipe-cost.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".recipe-cost.json"
	}
	return filepath.Join(homeDir, ".recipe-cost.json")
}

// Load loads configuration from a file; a missing file yields defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Engine.MaxDepth <= 0 {
		return errors.Newf(errors.TypeConfig, "engine.max_depth must be positive, got %d", c.Engine.MaxDepth)
	}
	if c.Engine.Parallelism <= 0 {
		return errors.Newf(errors.TypeConfig, "engine.parallelism must be positive, got %d", c.Engine.Parallelism)
	}
	if c.Output.CurrencyPlaces < 0 {
		return errors.Newf(errors.TypeConfig, "output.currency_places must not be negative, got %d", c.Output.CurrencyPlaces)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
