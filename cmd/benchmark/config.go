package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional bench.yaml.
type Config struct {
	Widths     []int  `yaml:"widths,omitempty"`
	Heights    []int  `yaml:"heights,omitempty"`
	Iterations int    `yaml:"iterations,omitempty"`
	Updater    string `yaml:"updater,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		Widths:     []int{1, 10, 100, 1_000},
		Heights:    []int{1, 10, 100},
		Iterations: 100,
		Updater:    "queue",
	}
}

// LoadOptional reads path if present. Fields left out of the file keep their
// defaults.
func LoadOptional(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(file.Widths) > 0 {
		cfg.Widths = file.Widths
	}
	if len(file.Heights) > 0 {
		cfg.Heights = file.Heights
	}
	if file.Iterations > 0 {
		cfg.Iterations = file.Iterations
	}
	if file.Updater != "" {
		cfg.Updater = file.Updater
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Updater {
	case "queue", "immediate":
	default:
		return fmt.Errorf("updater must be queue or immediate (got %q)", c.Updater)
	}
	for _, w := range c.Widths {
		if w < 1 {
			return fmt.Errorf("widths must be positive (got %d)", w)
		}
	}
	for _, h := range c.Heights {
		if h < 0 {
			return fmt.Errorf("heights cannot be negative (got %d)", h)
		}
	}
	return nil
}
