// Package config loads and validates a kiln.yaml project manifest:
// the source files or directories to compile, the output directory,
// the target emission language tag, and optional per-project
// defaults for logging and compile history.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the parsed contents of a kiln.yaml manifest.
type Config struct {
	// Sources lists the .kiln files and/or directories to compile, in
	// the order they should be read.
	Sources []string `yaml:"sources"`

	// Output is the directory the emitter writes generated code into.
	Output string `yaml:"output"`

	// Lang is the target emission language tag (e.g. "py", "ts"),
	// passed through to the out-of-scope emitter unmodified.
	Lang string `yaml:"lang"`

	// LogLevel is one of "debug", "info", "warn", "error". Defaults to
	// "info" if empty.
	LogLevel string `yaml:"log_level,omitempty"`

	// History enables writing a row to the compile-run history store
	// for every invocation. Defaults to true.
	History *bool `yaml:"history,omitempty"`
}

// RecordHistory reports whether compile-run history should be
// recorded, honoring the manifest's default of true when unset.
func (c *Config) RecordHistory() bool {
	return c.History == nil || *c.History
}

// Load reads and parses a kiln.yaml manifest at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses kiln.yaml content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Validate checks the manifest for semantic errors beyond what YAML
// unmarshaling itself catches.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("sources must list at least one file or directory")
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Lang == "" {
		return fmt.Errorf("lang is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
