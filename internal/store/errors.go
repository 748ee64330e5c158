package store

import "errors"

var (
	// ErrNotFound is returned when a record or artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRecord is returned when a record fails validation on intake.
	ErrInvalidRecord = errors.New("invalid report record")

	// ErrArtifactExists is returned when an artifact name is already taken.
	ErrArtifactExists = errors.New("artifact already exists")

	// ErrInvalidName is returned for artifact names that are not plain file names.
	ErrInvalidName = errors.New("invalid artifact name")

	// ErrDegraded is wrapped by List when some records could not be read.
	// The records that were read are still returned.
	ErrDegraded = errors.New("storage read degraded")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
