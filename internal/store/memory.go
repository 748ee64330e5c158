package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// MemoryStore keeps reports and artifacts in process memory.
// Contents are lost on Close.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []model.ReportRecord
	artifacts map[string]Artifact
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:   make([]model.ReportRecord, 0),
		artifacts: make(map[string]Artifact),
		now:       time.Now,
	}
}

// Append implements ReportStore.
func (m *MemoryStore) Append(ctx context.Context, rec model.ReportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(rec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, cloneRecord(rec))
	return nil
}

// List implements ReportStore.
func (m *MemoryStore) List(ctx context.Context, start, end time.Time) ([]model.ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.ReportRecord, 0)
	for _, rec := range m.records {
		if rec.ReportedAt.Before(start) || rec.ReportedAt.After(end) {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sortOldestFirst(out)
	return out, nil
}

// Get implements ReportStore.
func (m *MemoryStore) Get(ctx context.Context, id string) (model.ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ReportRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records {
		if rec.ID == id {
			return cloneRecord(rec), nil
		}
	}
	return model.ReportRecord{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

// Recent implements ReportStore.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]model.ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	out := make([]model.ReportRecord, len(m.records))
	for i, rec := range m.records {
		out[i] = cloneRecord(rec)
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return truncate(out, limit), nil
}

// PutArtifact implements ArtifactStore.
func (m *MemoryStore) PutArtifact(ctx context.Context, a Artifact) (ArtifactInfo, error) {
	if err := ctx.Err(); err != nil {
		return ArtifactInfo{}, err
	}
	a, err := prepareArtifact(a, m.now())
	if err != nil {
		return ArtifactInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.artifacts[a.Name]; exists {
		return ArtifactInfo{}, fmt.Errorf("%s: %w", a.Name, ErrArtifactExists)
	}
	a.Body = slices.Clone(a.Body)
	m.artifacts[a.Name] = a
	return a.Info(), nil
}

// GetArtifact implements ArtifactStore.
func (m *MemoryStore) GetArtifact(ctx context.Context, name string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artifacts[name]
	if !ok {
		return Artifact{}, fmt.Errorf("artifact %s: %w", name, ErrNotFound)
	}
	a.Body = slices.Clone(a.Body)
	return a, nil
}

// ListArtifacts implements ArtifactStore.
func (m *MemoryStore) ListArtifacts(ctx context.Context, limit int) ([]ArtifactInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	infos := make([]ArtifactInfo, 0, len(m.artifacts))
	for _, a := range m.artifacts {
		infos = append(infos, a.Info())
	}
	m.mu.RUnlock()

	sortArtifactsNewestFirst(infos)
	return truncate(infos, limit), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.artifacts = make(map[string]Artifact)
	return nil
}

// cloneRecord copies the top level of the context map so callers cannot
// mutate stored records.
func cloneRecord(rec model.ReportRecord) model.ReportRecord {
	if rec.Context != nil {
		ctx := make(map[string]any, len(rec.Context))
		for k, v := range rec.Context {
			ctx[k] = v
		}
		rec.Context = ctx
	}
	return rec
}
