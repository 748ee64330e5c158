package store

import (
	"context"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// ReportStore is an append-only log of report records.
// Implementations must be safe for concurrent use.
type ReportStore interface {
	// Append persists rec. Records are never updated after Append.
	Append(ctx context.Context, rec model.ReportRecord) error

	// List returns the records with ReportedAt in [start, end], oldest first.
	// When some records cannot be read, List returns the readable ones together
	// with an error wrapping ErrDegraded.
	List(ctx context.Context, start, end time.Time) ([]model.ReportRecord, error)

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (model.ReportRecord, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]model.ReportRecord, error)
}

// ArtifactStore keeps rendered digests. Artifacts are immutable: a second
// Put with the same name fails with ErrArtifactExists.
type ArtifactStore interface {
	// PutArtifact stores a. The checksum is computed by the store.
	PutArtifact(ctx context.Context, a Artifact) (ArtifactInfo, error)

	// GetArtifact returns the artifact with the given name or ErrNotFound.
	GetArtifact(ctx context.Context, name string) (Artifact, error)

	// ListArtifacts returns up to limit artifacts, newest first.
	ListArtifacts(ctx context.Context, limit int) ([]ArtifactInfo, error)
}

// Store is a complete storage backend.
type Store interface {
	ReportStore
	ArtifactStore

	// Close releases resources held by the backend.
	Close() error
}
