// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samvasq/auspex/internal/models"
)

const (
	// defaultSearchLimit pages event searches when no limit is given.
	defaultSearchLimit = 100
	// maxSearchLimit caps a caller-provided page size.
	maxSearchLimit = 1000
)

const logEntrySelectColumns = `id, timestamp, source_ip, username, event_type, status,
	raw_log, source_file, country_code, latitude, longitude, created_at`

// InsertLogEntry persists entry and fills in its generated id. It takes
// a Querier so batch ingestion can run it inside a transaction.
func InsertLogEntry(ctx context.Context, q Querier, entry *models.LogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	// RETURNING reads the sequence-assigned id back; DuckDB has no
	// LastInsertId.
	query := `INSERT INTO log_entries
		(timestamp, source_ip, username, event_type, status, raw_log, source_file, country_code, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := q.QueryRowContext(ctx, query,
		entry.Timestamp,
		entry.SourceIP,
		entry.Username,
		entry.EventType,
		entry.Status,
		entry.RawLog,
		entry.SourceFile,
		entry.CountryCode,
		entry.Latitude,
		entry.Longitude,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	return nil
}

// GetLogEntry retrieves a log entry by id. Returns (nil, nil) when the
// id is unknown.
func (db *DB) GetLogEntry(ctx context.Context, id int64) (*models.LogEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + logEntrySelectColumns + ` FROM log_entries WHERE id = ?`

	var entry models.LogEntry
	err := scanLogEntry(db.conn.QueryRowContext(ctx, query, id), &entry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log entry: %w", err)
	}

	return &entry, nil
}

// SearchLogEntries returns the filtered page of log entries, newest
// first, along with the total match count ignoring pagination.
func (db *DB) SearchLogEntries(ctx context.Context, filter models.EventFilter) ([]models.LogEntry, int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := buildEventFilters(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM log_entries` + where
	if err := db.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + logEntrySelectColumns + ` FROM log_entries` + where +
		` ORDER BY timestamp DESC LIMIT ? OFFSET ?`
	pageArgs := append(args, limit, offset)

	entries, err := queryAndScan(ctx, db.conn, query, pageArgs, func(rows *sql.Rows) (models.LogEntry, error) {
		var entry models.LogEntry
		err := scanLogEntry(rows, &entry)
		return entry, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search log entries: %w", err)
	}

	return entries, total, nil
}

// CountLogEntries returns the total number of stored log entries.
func (db *DB) CountLogEntries(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var total int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM log_entries`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return total, nil
}

// DeleteLogEntriesBefore removes log entries with timestamps older than
// cutoff and reports how many rows went away. The retention janitor
// calls this on its sweep interval.
func (db *DB) DeleteLogEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, `DELETE FROM log_entries WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old log entries: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}
	return deleted, nil
}

// buildEventFilters constructs the WHERE clause and arguments for an
// event search.
func buildEventFilters(filter models.EventFilter) (string, []interface{}) {
	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 8)

	if filter.SourceIP != "" {
		where += ` AND source_ip = ?`
		args = append(args, filter.SourceIP)
	}
	if filter.Username != "" {
		where += ` AND username = ?`
		args = append(args, filter.Username)
	}
	if filter.EventType != "" {
		where += ` AND event_type = ?`
		args = append(args, filter.EventType)
	}
	if filter.Status != "" {
		where += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Start != nil {
		where += ` AND timestamp >= ?`
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		where += ` AND timestamp <= ?`
		args = append(args, *filter.End)
	}

	return where, args
}

// scanLogEntry scans a single row into a LogEntry, mapping nullable
// columns onto pointer fields.
func scanLogEntry(scanner interface {
	Scan(dest ...interface{}) error
}, entry *models.LogEntry) error {
	var sourceIP, username, rawLog, sourceFile, countryCode sql.NullString
	var latitude, longitude sql.NullFloat64

	if err := scanner.Scan(
		&entry.ID,
		&entry.Timestamp,
		&sourceIP,
		&username,
		&entry.EventType,
		&entry.Status,
		&rawLog,
		&sourceFile,
		&countryCode,
		&latitude,
		&longitude,
		&entry.CreatedAt,
	); err != nil {
		return err
	}

	entry.SourceIP = sourceIP.String
	entry.Username = username.String
	entry.RawLog = rawLog.String
	entry.SourceFile = sourceFile.String

	if countryCode.Valid {
		cc := countryCode.String
		entry.CountryCode = &cc
	}
	if latitude.Valid {
		lat := latitude.Float64
		entry.Latitude = &lat
	}
	if longitude.Valid {
		lon := longitude.Float64
		entry.Longitude = &lon
	}

	return nil
}
