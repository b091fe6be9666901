// Package config loads the deduce configuration file. All fields have
// working defaults; a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"deduce/internal/checker"
)

// Config is the top-level configuration document.
type Config struct {
	// ClosurePolicy is "rule" (only Refl and refutation steps certify
	// closure) or "auto" (any derived line equal to the goal closes).
	ClosurePolicy string `yaml:"closure_policy"`

	// DatabasePath locates the proof archive SQLite file.
	DatabasePath string `yaml:"database_path"`

	Audit   AuditConfig   `yaml:"audit"`
	Logging LoggingConfig `yaml:"logging"`
}

// AuditConfig controls the ledger audit pass.
type AuditConfig struct {
	// Enabled runs the audit automatically after check and save.
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file overrides
// it.
func DefaultConfig() *Config {
	return &Config{
		ClosurePolicy: "rule",
		DatabasePath:  filepath.Join(".deduce", "proofs.db"),
		Audit:         AuditConfig{Enabled: true},
		Logging:       LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if _, err := cfg.Policy(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Policy resolves the configured closure policy.
func (c *Config) Policy() (checker.ClosurePolicy, error) {
	return checker.ParseClosurePolicy(c.ClosurePolicy)
}
