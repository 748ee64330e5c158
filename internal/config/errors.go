package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidBackend is returned when the storage backend is unknown.
	ErrInvalidBackend = errors.New("invalid backend: must be sqlite, file or memory")

	// ErrNoDataDir is returned when a persistent backend has no directory.
	ErrNoDataDir = errors.New("no data directory: set --data-dir or storage.dir")

	// ErrInvalidListenAddr is returned when the listen address is not host:port.
	ErrInvalidListenAddr = errors.New("invalid listen address: must be host:port")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidWindow is returned when the digest window is not positive.
	ErrInvalidWindow = errors.New("invalid digest window: days must be positive")

	// ErrInvalidTopN is returned when the ranking size is not positive.
	ErrInvalidTopN = errors.New("invalid top_n: must be positive")

	// ErrInvalidFormat is returned when the digest format is unknown.
	ErrInvalidFormat = errors.New("invalid format: must be html, markdown, json or text")

	// ErrInvalidTimeout is returned when the SMTP send timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConflictingFormats is returned when --json and --markdown are both set.
	ErrConflictingFormats = errors.New("conflicting output formats: --json and --markdown cannot be used together")
)
