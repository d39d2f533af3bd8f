package ucc

import "errors"

// Common errors used throughout the ucc package
var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrConfigFileNotFound indicates an explicitly named configuration file could not be located.
	ErrConfigFileNotFound = errors.New("configuration file not found")
)
