// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/models"
)

// setupTestDB creates an in-memory database with the schema applied.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// testEntry builds a minimal log entry for insertion tests.
func testEntry(ts time.Time, ip, user string, eventType models.EventType, status models.Status) *models.LogEntry {
	return &models.LogEntry{
		Timestamp: ts,
		SourceIP:  ip,
		Username:  user,
		EventType: eventType,
		Status:    status,
		RawLog:    "raw line for " + user,
	}
}

func TestNew_SchemaReady(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	total, err := db.CountLogEntries(context.Background())
	if err != nil {
		t.Fatalf("CountLogEntries failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected empty log_entries table, got %d rows", total)
	}
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	path := filepath.Join(dir, "auspex.duckdb")

	db, err := New(config.DatabaseConfig{Path: path, MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("Failed to create file-backed database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected parent directory to exist: %v", err)
	}
}

func TestWithTx_Commit(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return InsertLogEntry(ctx, tx, testEntry(ts, "203.0.113.1", "alice", models.EventTypeLogin, models.StatusSuccess))
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	total, err := db.CountLogEntries(ctx)
	if err != nil {
		t.Fatalf("CountLogEntries failed: %v", err)
	}
	if total != 1 {
		t.Errorf("Expected 1 committed row, got %d", total)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	wantErr := errors.New("batch failed")
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := InsertLogEntry(ctx, tx, testEntry(ts, "203.0.113.1", "alice", models.EventTypeLogin, models.StatusSuccess)); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected the callback error back, got %v", err)
	}

	total, err := db.CountLogEntries(ctx)
	if err != nil {
		t.Fatalf("CountLogEntries failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected rollback to discard the insert, got %d rows", total)
	}
}

func TestWithTx_UncommittedRowsVisibleInTx(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		entry := testEntry(ts, "203.0.113.1", "alice", models.EventTypeLogin, models.StatusFailed)
		if err := InsertLogEntry(ctx, tx, entry); err != nil {
			return err
		}

		// Detection windows depend on reading rows inserted earlier in
		// the same batch transaction.
		var count int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM log_entries WHERE source_ip = ?`, "203.0.113.1").Scan(&count); err != nil {
			return err
		}
		if count != 1 {
			t.Errorf("Expected the uncommitted row to be visible inside the transaction, got %d", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}
}
