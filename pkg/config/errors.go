package config

import "errors"

var (
	// ErrParsingConfig wraps every failure reported by the env parser.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrDotEnv is returned when an explicitly requested .env file cannot be read.
	ErrDotEnv = errors.New("failed to load env file")
)
