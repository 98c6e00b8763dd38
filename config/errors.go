package config

import "errors"

// Validation errors, one per configuration section.
var (
	ErrInvalidServer     = errors.New("config: invalid server settings")
	ErrInvalidWorkers    = errors.New("config: invalid worker settings")
	ErrInvalidThrottling = errors.New("config: invalid throttling settings")
	ErrInvalidCPUGauge   = errors.New("config: invalid cpu gauge settings")
	ErrInvalidSentry     = errors.New("config: invalid sentry settings")
)

// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
var ErrMissingEnv = errors.New("config: missing required environment variables")
