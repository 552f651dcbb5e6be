// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/models"
)

func TestNewJanitor_Defaults(t *testing.T) {
	janitor := NewJanitor(config.RetentionConfig{}, nil, nil)

	if janitor.retention != defaultRetention {
		t.Errorf("Expected retention %v, got %v", defaultRetention, janitor.retention)
	}
	if janitor.interval != defaultSweepInterval {
		t.Errorf("Expected interval %v, got %v", defaultSweepInterval, janitor.interval)
	}
}

func TestJanitorSweep(t *testing.T) {
	db, store := setupDetectionDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	old := now.Add(-60 * 24 * time.Hour)
	recent := now.Add(-time.Hour)

	// Old events beyond the horizon, one recent survivor.
	insertEvent(t, db, loginEvent(old, "203.0.113.7", "stale1", models.StatusFailed))
	insertEvent(t, db, loginEvent(old.Add(time.Minute), "203.0.113.7", "stale2", models.StatusFailed))
	insertEvent(t, db, loginEvent(recent, "203.0.113.7", "fresh", models.StatusFailed))

	// Resolved-old goes, open-old and resolved-recent stay.
	seedAlert(t, db, "sweep-resolved-old", models.RuleBruteForceLogin, models.SeverityHigh, old)
	seedAlert(t, db, "sweep-open-old", models.RuleBlacklistedIP, models.SeverityCritical, old)
	seedAlert(t, db, "sweep-resolved-recent", models.RuleBruteForceLogin, models.SeverityHigh, recent)
	for _, id := range []string{"sweep-resolved-old", "sweep-resolved-recent"} {
		if err := store.Resolve(ctx, id, "tester"); err != nil {
			t.Fatalf("Resolve %s failed: %v", id, err)
		}
	}

	janitor := &Janitor{
		db:        db,
		store:     store,
		retention: 30 * 24 * time.Hour,
		interval:  time.Hour,
		enabled:   true,
	}
	if err := janitor.Sweep(ctx); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	count, err := db.CountLogEntries(ctx)
	if err != nil {
		t.Fatalf("CountLogEntries failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 surviving log entry, got %d", count)
	}

	for _, tt := range []struct {
		alertID string
		want    bool
	}{
		{"sweep-resolved-old", false},
		{"sweep-open-old", true},
		{"sweep-resolved-recent", true},
	} {
		got, err := store.GetByAlertID(ctx, tt.alertID)
		if err != nil {
			t.Fatalf("GetByAlertID %s failed: %v", tt.alertID, err)
		}
		if (got != nil) != tt.want {
			t.Errorf("Alert %s: expected survive=%v, got %v", tt.alertID, tt.want, got != nil)
		}
	}
}

func TestJanitorRunWithContext_StopsOnCancel(t *testing.T) {
	db, store := setupDetectionDB(t)

	janitor := &Janitor{
		db:        db,
		store:     store,
		retention: defaultRetention,
		interval:  10 * time.Millisecond,
		enabled:   true,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- janitor.RunWithContext(ctx)
	}()

	// Let a few sweeps happen, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Janitor did not stop on cancel")
	}
}

func TestJanitorRunWithContext_DisabledWaits(t *testing.T) {
	janitor := NewJanitor(config.RetentionConfig{Enabled: false}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- janitor.RunWithContext(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Disabled janitor did not stop on cancel")
	}
}
