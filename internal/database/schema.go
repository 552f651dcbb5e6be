// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the log entry schema.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_log_entries_id`,

		`CREATE TABLE IF NOT EXISTS log_entries (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_log_entries_id'),
			timestamp TIMESTAMP NOT NULL,
			source_ip VARCHAR,
			username VARCHAR,
			event_type VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			raw_log VARCHAR,
			source_file VARCHAR,
			country_code VARCHAR,
			latitude DOUBLE,
			longitude DOUBLE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// createIndexes creates indexes for the common query patterns: time
// range scans, per-IP and per-user correlation windows, and the
// event_type/status pair the search endpoint filters on.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_log_entries_timestamp ON log_entries(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_source_ip ON log_entries(source_ip)`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_username ON log_entries(username)`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_event_status ON log_entries(event_type, status)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
