package config

import "errors"

// Sentinel kinds for configuration errors. Callers branch with errors.Is.
var (
	// ErrInvalidConfig marks a configuration the service cannot run with.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a failure reading or parsing a config source.
	ErrLoadConfig = errors.New("load config failed")
)
