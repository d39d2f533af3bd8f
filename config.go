// Package ucc is the front end of a compiler for a small C-like systems
// language. It turns source text into a validated, typed AST through three
// stages: tokenizer, parser and semantic analyzer.
package ucc

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// path is given.
const DefaultConfigFile = "ucc.yaml"

// Config carries the project-level settings of a compilation.
type Config struct {
	// PointerSize is the byte width of one architecture word; every pointer
	// value occupies exactly this much. Must be 2, 4 or 8.
	PointerSize int `yaml:"pointer_size"`
	// Comment is the line comment marker of the source language.
	Comment string `yaml:"comment"`
}

// DefaultConfig returns the settings of the default 64-bit target.
func DefaultConfig() *Config {
	return &Config{
		PointerSize: 8,
		Comment:     "#",
	}
}

// LoadConfig reads the configuration file, applies environment overrides and
// validates the result. A missing default file is not an error; a missing
// explicit path is. Environment variables may come from a .env file in the
// working directory. UCC_POINTER_SIZE overrides pointer_size.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case explicit:
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	if raw := os.Getenv("UCC_POINTER_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: UCC_POINTER_SIZE=%q", ErrConfigValidation, raw)
		}

		config.PointerSize = size
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	switch c.PointerSize {
	case 2, 4, 8:
	default:
		return fmt.Errorf("%w: pointer_size must be 2, 4 or 8, got %d", ErrConfigValidation, c.PointerSize)
	}

	if c.Comment == "" {
		return fmt.Errorf("%w: comment marker must not be empty", ErrConfigValidation)
	}

	return nil
}
