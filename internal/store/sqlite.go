package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// DatabaseFileName is the SQLite file created inside the data directory.
const DatabaseFileName = "phishguard.db"

// SQLiteStore keeps reports and digest artifacts in a single SQLite file.
type SQLiteStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	now func() time.Time
}

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so digest reads do not block intake.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates the database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func OpenSQLite(dbDir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, DatabaseFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *SQLiteStore) createTables() error {
	schema := `
	-- Reports are append-only; reported_at uses a fixed-width UTC layout
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		context_json TEXT NOT NULL DEFAULT '{}',
		tenant_key TEXT NOT NULL DEFAULT '',
		reported_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_reported_at ON reports(reported_at);
	CREATE INDEX IF NOT EXISTS idx_reports_tenant ON reports(tenant_key);

	-- Rendered digests, immutable once written
	CREATE TABLE IF NOT EXISTS artifacts (
		name TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		body BLOB NOT NULL,
		checksum TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON artifacts(created_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Append implements ReportStore.
func (s *SQLiteStore) Append(ctx context.Context, rec model.ReportRecord) error {
	if err := Validate(rec); err != nil {
		return err
	}

	contextJSON := []byte("{}")
	if rec.Context != nil {
		var err error
		contextJSON, err = json.Marshal(rec.Context)
		if err != nil {
			return fmt.Errorf("failed to serialize context: %w", err)
		}
	}

	query := `
	INSERT INTO reports (id, url, context_json, tenant_key, reported_at)
	VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.URL,
		string(contextJSON),
		rec.TenantKey,
		formatTimestamp(rec.ReportedAt),
	); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// List implements ReportStore. Rows whose context cannot be decoded are
// skipped and reported through an error wrapping ErrDegraded.
func (s *SQLiteStore) List(ctx context.Context, start, end time.Time) ([]model.ReportRecord, error) {
	query := `
	SELECT id, url, context_json, tenant_key, reported_at
	FROM reports
	WHERE reported_at >= ? AND reported_at <= ?
	ORDER BY reported_at ASC
	`
	return s.queryRecords(ctx, query, formatTimestamp(start), formatTimestamp(end))
}

// Recent implements ReportStore.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]model.ReportRecord, error) {
	query := `
	SELECT id, url, context_json, tenant_key, reported_at
	FROM reports
	ORDER BY reported_at DESC
	`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryRecords(ctx, query, args...)
}

// Get implements ReportStore.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.ReportRecord, error) {
	query := `
	SELECT id, url, context_json, tenant_key, reported_at
	FROM reports
	WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReportRecord{}, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.ReportRecord{}, fmt.Errorf("failed to get report: %w", err)
	}
	return rec, nil
}

// queryRecords runs a report query and decodes every row it can.
func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]model.ReportRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	records := make([]model.ReportRecord, 0)
	skipped := 0
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		// Keep what was read before the cursor failed.
		return records, fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	return records, degradedError(skipped, "row")
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.ReportRecord, error) {
	var rec model.ReportRecord
	var contextJSON, reportedAt string

	if err := row.Scan(&rec.ID, &rec.URL, &contextJSON, &rec.TenantKey, &reportedAt); err != nil {
		return model.ReportRecord{}, err
	}

	if contextJSON != "" {
		if err := json.Unmarshal([]byte(contextJSON), &rec.Context); err != nil {
			return model.ReportRecord{}, fmt.Errorf("failed to parse context: %w", err)
		}
	}

	// Parse timestamp (tolerates rows written by other tools)
	rec.ReportedAt = parseTimestamp(reportedAt)
	return rec, nil
}

// PutArtifact implements ArtifactStore.
func (s *SQLiteStore) PutArtifact(ctx context.Context, a Artifact) (ArtifactInfo, error) {
	a, err := prepareArtifact(a, s.now())
	if err != nil {
		return ArtifactInfo{}, err
	}

	query := `
	INSERT INTO artifacts (name, content_type, body, checksum, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(name) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		a.Name,
		a.ContentType,
		a.Body,
		a.Checksum,
		formatTimestamp(a.CreatedAt),
	)
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to insert artifact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return ArtifactInfo{}, fmt.Errorf("failed to insert artifact: %w", err)
	}
	if n == 0 {
		return ArtifactInfo{}, fmt.Errorf("%s: %w", a.Name, ErrArtifactExists)
	}
	return a.Info(), nil
}

// GetArtifact implements ArtifactStore.
func (s *SQLiteStore) GetArtifact(ctx context.Context, name string) (Artifact, error) {
	query := `
	SELECT name, content_type, body, checksum, created_at
	FROM artifacts
	WHERE name = ?
	`
	var a Artifact
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&a.Name, &a.ContentType, &a.Body, &a.Checksum, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Artifact{}, fmt.Errorf("artifact %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to get artifact: %w", err)
	}
	a.CreatedAt = parseTimestamp(createdAt)
	return a, nil
}

// ListArtifacts implements ArtifactStore.
func (s *SQLiteStore) ListArtifacts(ctx context.Context, limit int) ([]ArtifactInfo, error) {
	query := `
	SELECT name, content_type, length(body), checksum, created_at
	FROM artifacts
	ORDER BY created_at DESC, name DESC
	`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	infos := make([]ArtifactInfo, 0)
	for rows.Next() {
		var info ArtifactInfo
		var createdAt string
		if err := rows.Scan(&info.Name, &info.ContentType, &info.Size, &info.Checksum, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		info.CreatedAt = parseTimestamp(createdAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
