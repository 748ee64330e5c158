package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	db, err := OpenSQLite(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db, cleanup
}

// TestOpenSQLite tests database opening and creation.
func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := OpenSQLite(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DatabaseFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, DatabaseFileName) {
			t.Errorf("Path() = %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		_, err := OpenSQLite(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected error to mention missing database, got %q", err.Error())
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created when CreateIfNotExists=false")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		db1, err := OpenSQLite(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		rec := mustRecord(t, "https://bit.ly/persist", baseTime)
		if err := db1.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		_ = db1.Close()

		db2, err := OpenSQLite(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()

		if _, err := db2.Get(context.Background(), rec.ID); err != nil {
			t.Errorf("record should survive reopen: %v", err)
		}
	})
}

func TestSQLiteStoreDegradedRow(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	good := mustRecord(t, "https://bit.ly/ok", baseTime)
	if err := db.Append(ctx, good); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// A row written by another tool with a context column that is not JSON.
	if _, err := db.db.ExecContext(ctx,
		`INSERT INTO reports (id, url, context_json, tenant_key, reported_at) VALUES (?, ?, ?, ?, ?)`,
		"broken", "https://x.tk/", "{oops", "", formatTimestamp(baseTime.Add(time.Minute)),
	); err != nil {
		t.Fatalf("failed to insert broken row: %v", err)
	}

	got, err := db.List(ctx, baseTime.Add(-time.Hour), baseTime.Add(time.Hour))
	if !errors.Is(err, ErrDegraded) {
		t.Errorf("List() error = %v, want ErrDegraded", err)
	}
	if len(got) != 1 || got[0].ID != good.ID {
		t.Errorf("List() = %v, want only the readable record", got)
	}
}

func TestSQLiteStoreSubSecondWindow(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	rec := mustRecord(t, "https://bit.ly/ns", baseTime.Add(500*time.Millisecond))
	if err := db.Append(ctx, rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := db.List(ctx, baseTime, baseTime.Add(time.Second))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("List() returned %d records, want 1", len(got))
	}

	got, err = db.List(ctx, baseTime.Add(600*time.Millisecond), baseTime.Add(time.Second))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() returned %d records, want 0", len(got))
	}
}
