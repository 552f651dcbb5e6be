// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

// insertEvent persists the entry and returns it with its id assigned.
func insertEvent(t *testing.T, db *database.DB, entry *models.LogEntry) *models.LogEntry {
	t.Helper()

	if err := database.InsertLogEntry(context.Background(), db.Conn(), entry); err != nil {
		t.Fatalf("Failed to insert log entry: %v", err)
	}
	return entry
}

// loginEvent builds a login entry. The raw log is kept free of privilege
// escalation keywords so only the rule under test fires.
func loginEvent(ts time.Time, ip, user string, status models.Status) *models.LogEntry {
	return &models.LogEntry{
		Timestamp: ts,
		SourceIP:  ip,
		Username:  user,
		EventType: models.EventTypeLogin,
		Status:    status,
		RawLog:    fmt.Sprintf("%s %s %s", ts.Format(time.RFC3339), ip, user),
	}
}

// locatedLogin builds a successful login that resolved to coordinates.
func locatedLogin(ts time.Time, ip, user, cc string, lat, lon float64) *models.LogEntry {
	entry := loginEvent(ts, ip, user, models.StatusSuccess)
	entry.CountryCode = &cc
	entry.Latitude = &lat
	entry.Longitude = &lon
	return entry
}
