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

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

// countFailedLogins returns how many failed login events the source IP
// produced in [since, until], inclusive on both ends so the triggering
// event counts itself.
func countFailedLogins(ctx context.Context, q database.Querier, sourceIP string, since, until time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM log_entries
		WHERE source_ip = ? AND status = ? AND event_type = ?
		AND timestamp >= ? AND timestamp <= ?`

	var count int64
	err := q.QueryRowContext(ctx, query,
		sourceIP, models.StatusFailed, models.EventTypeLogin, since, until,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count failed logins: %w", err)
	}

	return count, nil
}

// previousLogin returns the most recent successful login for the username
// in [since, before) from a source IP other than excludeIP that resolved
// to coordinates, or nil when there is none.
func previousLogin(ctx context.Context, q database.Querier, username, excludeIP string, since, before time.Time) (*models.LogEntry, error) {
	query := `SELECT source_ip, country_code, latitude, longitude, timestamp FROM log_entries
		WHERE username = ? AND status = ? AND event_type = ?
		AND timestamp >= ? AND timestamp < ?
		AND source_ip <> ?
		AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY timestamp DESC
		LIMIT 1`

	var (
		entry       models.LogEntry
		countryCode sql.NullString
		latitude    float64
		longitude   float64
	)
	err := q.QueryRowContext(ctx, query,
		username, models.StatusSuccess, models.EventTypeLogin, since, before, excludeIP,
	).Scan(&entry.SourceIP, &countryCode, &latitude, &longitude, &entry.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query previous login: %w", err)
	}

	entry.Username = username
	entry.Latitude = &latitude
	entry.Longitude = &longitude
	if countryCode.Valid {
		v := countryCode.String
		entry.CountryCode = &v
	}

	return &entry, nil
}
