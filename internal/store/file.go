package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

const (
	reportsDirName   = "reports"
	digestsDirName   = "digests"
	reportFilePrefix = "report-"
	reportFileSuffix = ".json"
)

// FileStore keeps one JSON file per report and one file per artifact
// under a base directory:
//
//	<dir>/reports/report-<timestamp>-<id>.json
//	<dir>/digests/weekly_digest_<date>.<ext>
type FileStore struct {
	reportsDir string
	digestsDir string
	now        func() time.Time
}

// fileRecord is the on-disk shape of a report. ReceivedAt is accepted for
// files written before reportedAt existed.
type fileRecord struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Context    map[string]any `json:"context,omitempty"`
	TenantKey  string         `json:"tenantKey,omitempty"`
	ReportedAt string         `json:"reportedAt,omitempty"`
	ReceivedAt string         `json:"receivedAt,omitempty"`
}

// OpenFileStore creates the directory layout under dir if needed.
func OpenFileStore(dir string) (*FileStore, error) {
	fsys := &FileStore{
		reportsDir: filepath.Join(dir, reportsDirName),
		digestsDir: filepath.Join(dir, digestsDirName),
		now:        time.Now,
	}
	for _, d := range []string{fsys.reportsDir, fsys.digestsDir} {
		if err := os.MkdirAll(d, 0750); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return fsys, nil
}

// Append implements ReportStore.
func (f *FileStore) Append(ctx context.Context, rec model.ReportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(rec); err != nil {
		return err
	}

	data, err := json.MarshalIndent(fileRecord{
		ID:         rec.ID,
		URL:        rec.URL,
		Context:    rec.Context,
		TenantKey:  rec.TenantKey,
		ReportedAt: formatTimestamp(rec.ReportedAt),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	name := fmt.Sprintf("%s%s-%s%s", reportFilePrefix,
		rec.ReportedAt.UTC().Format("20060102T150405.000000000Z"), rec.ID, reportFileSuffix)
	return writeExclusive(filepath.Join(f.reportsDir, name), data)
}

// List implements ReportStore. Files that cannot be read or decoded are
// skipped and reported through an error wrapping ErrDegraded.
func (f *FileStore) List(ctx context.Context, start, end time.Time) ([]model.ReportRecord, error) {
	all, skipped, err := f.readAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.ReportRecord, 0, len(all))
	for _, rec := range all {
		if rec.ReportedAt.IsZero() || rec.ReportedAt.Before(start) || rec.ReportedAt.After(end) {
			continue
		}
		out = append(out, rec)
	}
	sortOldestFirst(out)

	return out, degradedError(skipped, "report file")
}

// Get implements ReportStore.
func (f *FileStore) Get(ctx context.Context, id string) (model.ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ReportRecord{}, err
	}
	if id == "" || strings.ContainsAny(id, `/\*?[`) {
		return model.ReportRecord{}, fmt.Errorf("report %q: %w", id, ErrNotFound)
	}

	// The wildcard may also cover leading segments of a longer ID, so only a
	// record whose decoded ID equals id counts.
	matches, err := filepath.Glob(filepath.Join(f.reportsDir, reportFilePrefix+"*-"+id+reportFileSuffix))
	if err != nil {
		return model.ReportRecord{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	for _, path := range matches {
		rec, err := readRecordFile(path)
		if err != nil {
			continue
		}
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.ReportRecord{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
}

// Recent implements ReportStore.
func (f *FileStore) Recent(ctx context.Context, limit int) ([]model.ReportRecord, error) {
	all, skipped, err := f.readAll(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return truncate(all, limit), degradedError(skipped, "report file")
}

// readAll decodes every report file, counting the ones it had to skip.
func (f *FileStore) readAll(ctx context.Context) ([]model.ReportRecord, int, error) {
	entries, err := os.ReadDir(f.reportsDir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read reports directory: %w", err)
	}

	records := make([]model.ReportRecord, 0, len(entries))
	skipped := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, reportFilePrefix) || !strings.HasSuffix(name, reportFileSuffix) {
			continue
		}
		rec, err := readRecordFile(filepath.Join(f.reportsDir, name))
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func readRecordFile(path string) (model.ReportRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the store directory
	if err != nil {
		return model.ReportRecord{}, err
	}

	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return model.ReportRecord{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	ts := fr.ReportedAt
	if ts == "" {
		ts = fr.ReceivedAt
	}
	return model.ReportRecord{
		ID:         fr.ID,
		URL:        fr.URL,
		Context:    fr.Context,
		TenantKey:  fr.TenantKey,
		ReportedAt: parseTimestamp(ts),
	}, nil
}

// PutArtifact implements ArtifactStore.
func (f *FileStore) PutArtifact(ctx context.Context, a Artifact) (ArtifactInfo, error) {
	if err := ctx.Err(); err != nil {
		return ArtifactInfo{}, err
	}
	a, err := prepareArtifact(a, f.now())
	if err != nil {
		return ArtifactInfo{}, err
	}
	if err := writeExclusive(filepath.Join(f.digestsDir, a.Name), a.Body); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ArtifactInfo{}, fmt.Errorf("%s: %w", a.Name, ErrArtifactExists)
		}
		return ArtifactInfo{}, err
	}
	return a.Info(), nil
}

// GetArtifact implements ArtifactStore.
func (f *FileStore) GetArtifact(ctx context.Context, name string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}

	path := filepath.Join(f.digestsDir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, fmt.Errorf("artifact %s: %w", name, ErrNotFound)
		}
		return Artifact{}, err
	}
	body, err := os.ReadFile(path) //nolint:gosec // name validated above
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}

	return Artifact{
		Name:        name,
		ContentType: contentTypeForName(name),
		Body:        body,
		Checksum:    Checksum(body),
		CreatedAt:   info.ModTime().UTC(),
	}, nil
}

// ListArtifacts implements ArtifactStore.
func (f *FileStore) ListArtifacts(ctx context.Context, limit int) ([]ArtifactInfo, error) {
	entries, err := os.ReadDir(f.digestsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read digests directory: %w", err)
	}

	infos := make([]ArtifactInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		a, err := f.GetArtifact(ctx, entry.Name())
		if err != nil {
			continue
		}
		infos = append(infos, a.Info())
	}
	sortArtifactsNewestFirst(infos)
	return truncate(infos, limit), nil
}

// Close implements Store. FileStore holds no open handles.
func (f *FileStore) Close() error {
	return nil
}

// writeExclusive writes data to a new file, failing if path already exists.
func writeExclusive(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600) //nolint:gosec // path is built from the store directory
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return file.Close()
}

// degradedError wraps ErrDegraded when skipped items were dropped from a read.
func degradedError(skipped int, what string) error {
	if skipped == 0 {
		return nil
	}
	return fmt.Errorf("%w: skipped %d unreadable %s(s)", ErrDegraded, skipped, what)
}
