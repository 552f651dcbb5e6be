// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

// Store persists alerts in DuckDB alongside the log entries they were
// correlated from.
type Store struct {
	db *database.DB
}

// NewStore wraps the shared database handle.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// InitSchema creates the alerts table, sequence, and indexes.
func (s *Store) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_alerts_id`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_alerts_id'),
			alert_id VARCHAR NOT NULL UNIQUE,
			rule_name VARCHAR NOT NULL,
			severity VARCHAR NOT NULL,
			description VARCHAR NOT NULL,
			context JSON,
			source_ip VARCHAR,
			username VARCHAR,
			log_entry_id BIGINT,
			triggered_at TIMESTAMP NOT NULL,
			acknowledged BOOLEAN NOT NULL DEFAULT false,
			acknowledged_by VARCHAR,
			acknowledged_at TIMESTAMP,
			resolved BOOLEAN NOT NULL DEFAULT false,
			resolved_by VARCHAR,
			resolved_at TIMESTAMP,
			notes VARCHAR,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_alerts_alert_id ON alerts(alert_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_rule_name ON alerts(rule_name)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_triggered_at ON alerts(triggered_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_resolved ON alerts(resolved)`,
	}

	for _, query := range queries {
		if _, err := s.db.Conn().ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create alerts schema: %w", err)
		}
	}

	if err := s.db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("checkpoint after alerts schema creation failed")
	}

	return nil
}

// CreateAlert inserts the alert and assigns its database id. It runs on
// any Querier so batch ingestion can persist alerts inside the same
// transaction as the log entries that triggered them.
func CreateAlert(ctx context.Context, q database.Querier, alert *models.Alert) error {
	if alert == nil {
		return errors.New("alert is nil")
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	// The driver rejects json.RawMessage because it implements
	// json.Marshaler; hand it the raw bytes instead. Declared as any so
	// a nil context binds SQL NULL rather than a typed-nil []byte, which
	// the driver would coerce to "" and DuckDB reject as malformed JSON.
	var contextJSON any
	if alert.Context != nil {
		contextJSON = []byte(alert.Context)
	}

	query := `INSERT INTO alerts
		(alert_id, rule_name, severity, description, context, source_ip, username, log_entry_id, triggered_at, acknowledged, resolved, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	err := q.QueryRowContext(ctx, query,
		alert.AlertID,
		alert.RuleName,
		alert.Severity,
		alert.Description,
		contextJSON,
		alert.SourceIP,
		alert.Username,
		alert.LogEntryID,
		alert.TriggeredAt,
		alert.Acknowledged,
		alert.Resolved,
		alert.Notes,
		alert.CreatedAt,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// alertKey selects which correlation columns a dedup check matches on.
// An empty event field matches stored NULL, so events without a username
// still dedup against each other rather than against everything.
type alertKey struct {
	bySourceIP bool
	byUsername bool
}

// hasUnresolvedAlert reports whether an unresolved alert for the rule and
// correlation key exists with triggered_at at or after since. The check
// is one-sided on purpose: a late-arriving event must also be suppressed
// by an alert that is newer than it.
func hasUnresolvedAlert(ctx context.Context, q database.Querier, rule models.RuleName, event *models.LogEntry, key alertKey, since time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE rule_name = ? AND resolved = false AND triggered_at >= ?`
	args := []interface{}{rule, since}

	if key.bySourceIP {
		if event.SourceIP == "" {
			query += ` AND source_ip IS NULL`
		} else {
			query += ` AND source_ip = ?`
			args = append(args, event.SourceIP)
		}
	}
	if key.byUsername {
		if event.Username == "" {
			query += ` AND username IS NULL`
		} else {
			query += ` AND username = ?`
			args = append(args, event.Username)
		}
	}

	var count int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check for duplicate alert: %w", err)
	}

	return count > 0, nil
}

const alertColumns = `id, alert_id, rule_name, severity, description, context,
	source_ip, username, log_entry_id, triggered_at,
	acknowledged, acknowledged_by, acknowledged_at,
	resolved, resolved_by, resolved_at, notes, created_at`

// scanAlert reads one alert row. The context column comes back from the
// driver as decoded JSON, so it is re-marshaled into raw bytes.
func scanAlert(row interface{ Scan(...any) error }) (*models.Alert, error) {
	var (
		alert      models.Alert
		contextVal interface{}
		sourceIP   sql.NullString
		username   sql.NullString
		logEntryID sql.NullInt64
		ackBy      sql.NullString
		ackAt      sql.NullTime
		resBy      sql.NullString
		resAt      sql.NullTime
		notes      sql.NullString
	)

	err := row.Scan(
		&alert.ID,
		&alert.AlertID,
		&alert.RuleName,
		&alert.Severity,
		&alert.Description,
		&contextVal,
		&sourceIP,
		&username,
		&logEntryID,
		&alert.TriggeredAt,
		&alert.Acknowledged,
		&ackBy,
		&ackAt,
		&alert.Resolved,
		&resBy,
		&resAt,
		&notes,
		&alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if contextVal != nil {
		raw, err := json.Marshal(contextVal)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode alert context: %w", err)
		}
		alert.Context = raw
	}

	if sourceIP.Valid {
		v := sourceIP.String
		alert.SourceIP = &v
	}
	if username.Valid {
		v := username.String
		alert.Username = &v
	}
	if logEntryID.Valid {
		v := logEntryID.Int64
		alert.LogEntryID = &v
	}
	if ackBy.Valid {
		v := ackBy.String
		alert.AcknowledgedBy = &v
	}
	if ackAt.Valid {
		v := ackAt.Time
		alert.AcknowledgedAt = &v
	}
	if resBy.Valid {
		v := resBy.String
		alert.ResolvedBy = &v
	}
	if resAt.Valid {
		v := resAt.Time
		alert.ResolvedAt = &v
	}
	if notes.Valid {
		v := notes.String
		alert.Notes = &v
	}

	return &alert, nil
}

// GetByAlertID returns the alert with the given public id, or nil when no
// such alert exists.
func (s *Store) GetByAlertID(ctx context.Context, alertID string) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE alert_id = ?`

	alert, err := scanAlert(s.db.Conn().QueryRowContext(ctx, query, alertID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return alert, nil
}

// GetDetail returns the alert together with a reference to its triggering
// log entry. The log entry side is nil when the alert has no origin event
// or the entry was removed by retention.
func (s *Store) GetDetail(ctx context.Context, alertID string) (*models.AlertDetail, error) {
	query := `SELECT a.id, a.alert_id, a.rule_name, a.severity, a.description, a.context,
			a.source_ip, a.username, a.log_entry_id, a.triggered_at,
			a.acknowledged, a.acknowledged_by, a.acknowledged_at,
			a.resolved, a.resolved_by, a.resolved_at, a.notes, a.created_at,
			l.id, l.timestamp, l.raw_log, l.country_code
		FROM alerts a
		LEFT JOIN log_entries l ON a.log_entry_id = l.id
		WHERE a.alert_id = ?`

	var (
		alert       models.Alert
		contextVal  interface{}
		sourceIP    sql.NullString
		username    sql.NullString
		logEntryID  sql.NullInt64
		ackBy       sql.NullString
		ackAt       sql.NullTime
		resBy       sql.NullString
		resAt       sql.NullTime
		notes       sql.NullString
		entryID     sql.NullInt64
		entryTS     sql.NullTime
		entryRaw    sql.NullString
		entryCC     sql.NullString
	)

	err := s.db.Conn().QueryRowContext(ctx, query, alertID).Scan(
		&alert.ID,
		&alert.AlertID,
		&alert.RuleName,
		&alert.Severity,
		&alert.Description,
		&contextVal,
		&sourceIP,
		&username,
		&logEntryID,
		&alert.TriggeredAt,
		&alert.Acknowledged,
		&ackBy,
		&ackAt,
		&alert.Resolved,
		&resBy,
		&resAt,
		&notes,
		&alert.CreatedAt,
		&entryID,
		&entryTS,
		&entryRaw,
		&entryCC,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert detail: %w", err)
	}

	if contextVal != nil {
		raw, err := json.Marshal(contextVal)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode alert context: %w", err)
		}
		alert.Context = raw
	}
	if sourceIP.Valid {
		v := sourceIP.String
		alert.SourceIP = &v
	}
	if username.Valid {
		v := username.String
		alert.Username = &v
	}
	if logEntryID.Valid {
		v := logEntryID.Int64
		alert.LogEntryID = &v
	}
	if ackBy.Valid {
		v := ackBy.String
		alert.AcknowledgedBy = &v
	}
	if ackAt.Valid {
		v := ackAt.Time
		alert.AcknowledgedAt = &v
	}
	if resBy.Valid {
		v := resBy.String
		alert.ResolvedBy = &v
	}
	if resAt.Valid {
		v := resAt.Time
		alert.ResolvedAt = &v
	}
	if notes.Valid {
		v := notes.String
		alert.Notes = &v
	}

	detail := &models.AlertDetail{Alert: alert}
	if entryID.Valid {
		ref := &models.LogEntryRef{
			ID:        entryID.Int64,
			Timestamp: entryTS.Time,
			RawLog:    entryRaw.String,
		}
		if entryCC.Valid {
			v := entryCC.String
			ref.CountryCode = &v
		}
		detail.LogEntry = ref
	}

	return detail, nil
}

// alertFilterWhere builds the WHERE clause shared by List and
// ListForExport. Date bounds are inclusive on both ends.
func alertFilterWhere(filter models.AlertFilter) (string, []interface{}) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if filter.Severity != "" {
		where += ` AND severity = ?`
		args = append(args, filter.Severity)
	}
	if filter.RuleName != "" {
		where += ` AND rule_name = ?`
		args = append(args, filter.RuleName)
	}
	if filter.Resolved != nil {
		where += ` AND resolved = ?`
		args = append(args, *filter.Resolved)
	}
	if filter.Start != nil {
		where += ` AND triggered_at >= ?`
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		where += ` AND triggered_at <= ?`
		args = append(args, *filter.End)
	}

	return where, args
}

// List returns alerts matching the filter ordered newest first, plus the
// total matching count for pagination.
func (s *Store) List(ctx context.Context, filter models.AlertFilter) ([]models.Alert, int64, error) {
	where, args := alertFilterWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM alerts` + where
	if err := s.db.Conn().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + alertColumns + ` FROM alerts` + where +
		` ORDER BY triggered_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer closeQuietly(rows)

	alerts := make([]models.Alert, 0, limit)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, total, nil
}

// ListForExport returns every alert matching the filter ordered newest
// first. Exports are report downloads, so no pagination is applied.
func (s *Store) ListForExport(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	where, args := alertFilterWhere(filter)

	query := `SELECT ` + alertColumns + ` FROM alerts` + where + ` ORDER BY triggered_at DESC`

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for export: %w", err)
	}
	defer closeQuietly(rows)

	alerts := []models.Alert{}
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

// Acknowledge marks the alert as acknowledged by the analyst. Repeat
// acknowledgements refresh the analyst and timestamp.
func (s *Store) Acknowledge(ctx context.Context, alertID, analyst string) error {
	query := `UPDATE alerts SET acknowledged = true, acknowledged_by = ?, acknowledged_at = ? WHERE alert_id = ?`

	result, err := s.db.Conn().ExecContext(ctx, query, analyst, time.Now().UTC(), alertID)
	if err != nil {
		return fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	return requireRow(result)
}

// Resolve marks the alert resolved. An alert that was never acknowledged
// gets its acknowledgement stamped with the same analyst and time;
// COALESCE preserves an earlier acknowledgement untouched.
func (s *Store) Resolve(ctx context.Context, alertID, analyst string) error {
	now := time.Now().UTC()
	query := `UPDATE alerts SET
			resolved = true, resolved_by = ?, resolved_at = ?,
			acknowledged = true,
			acknowledged_by = COALESCE(acknowledged_by, ?),
			acknowledged_at = COALESCE(acknowledged_at, ?)
		WHERE alert_id = ?`

	result, err := s.db.Conn().ExecContext(ctx, query, analyst, now, analyst, now, alertID)
	if err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	return requireRow(result)
}

// SetNotes replaces the analyst notes on the alert.
func (s *Store) SetNotes(ctx context.Context, alertID, notes string) error {
	query := `UPDATE alerts SET notes = ? WHERE alert_id = ?`

	result, err := s.db.Conn().ExecContext(ctx, query, notes, alertID)
	if err != nil {
		return fmt.Errorf("failed to set alert notes: %w", err)
	}

	return requireRow(result)
}

// requireRow maps a zero-row UPDATE to ErrNotFound so callers can
// distinguish an unknown alert_id from a storage failure.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Statistics returns unresolved alert counts grouped by severity.
func (s *Store) Statistics(ctx context.Context) (*models.AlertStats, error) {
	query := `SELECT severity, COUNT(*) FROM alerts WHERE resolved = false GROUP BY severity`

	rows, err := s.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert statistics: %w", err)
	}
	defer closeQuietly(rows)

	stats := &models.AlertStats{}
	for rows.Next() {
		var (
			severity string
			count    int64
		)
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan alert statistics: %w", err)
		}
		stats.Add(models.Severity(severity), count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alert statistics: %w", err)
	}

	return stats, nil
}

// CountAlerts returns the total number of alerts regardless of state.
func (s *Store) CountAlerts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// DeleteResolvedBefore removes resolved alerts whose triggered_at is
// before the cutoff and returns how many were deleted.
func (s *Store) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.Conn().ExecContext(ctx,
		`DELETE FROM alerts WHERE resolved = true AND triggered_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resolved alerts: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return deleted, nil
}

// closeQuietly closes rows where a failure is not actionable.
func closeQuietly(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Debug().Err(err).Msg("failed to close rows")
	}
}
