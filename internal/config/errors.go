package config

import "errors"

// Configuration errors.
// Validate returns the first one that applies so callers can match with
// errors.Is.
var (
	// ErrNoInput is returned when no input file was given.
	ErrNoInput = errors.New("no input specified: provide a file argument or use --filename")

	// ErrInvalidTopN is returned when the number of combinations to show is
	// negative. Zero shows every combination.
	ErrInvalidTopN = errors.New("invalid top: must be non-negative")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid format: must be one of text, markdown, json, yaml")

	// ErrInvalidCompression is returned for an unknown input compression.
	ErrInvalidCompression = errors.New("invalid compression: must be one of auto, none, gzip, zstd, lz4")

	// ErrInvalidFailureSamples is returned when the failure sample size is
	// negative.
	ErrInvalidFailureSamples = errors.New("invalid failure samples: must be non-negative")

	// ErrInvalidLogFormat is returned for an unknown log format.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when an explicitly given configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
