// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/logging"
)

const (
	defaultRetention     = 90 * 24 * time.Hour
	defaultSweepInterval = time.Hour
)

// Janitor periodically deletes log entries and resolved alerts older
// than the retention horizon. Unresolved alerts survive regardless of
// age; their origin log entries may still be swept, which the alert
// detail view tolerates.
type Janitor struct {
	db        *database.DB
	store     *Store
	retention time.Duration
	interval  time.Duration
	enabled   bool
}

// NewJanitor builds the janitor from retention config.
func NewJanitor(cfg config.RetentionConfig, db *database.DB, store *Store) *Janitor {
	retention := time.Duration(cfg.AlertRetentionDays) * 24 * time.Hour
	if retention <= 0 {
		retention = defaultRetention
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &Janitor{
		db:        db,
		store:     store,
		retention: retention,
		interval:  interval,
		enabled:   cfg.Enabled,
	}
}

// RunWithContext sweeps on the configured interval until the context is
// cancelled. Implements the supervision tree's service contract.
func (j *Janitor) RunWithContext(ctx context.Context) error {
	if !j.enabled {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := j.Sweep(ctx); err != nil {
				logging.Error().Err(err).Msg("retention sweep failed")
			}
		}
	}
}

// Sweep deletes everything past the retention horizon once.
func (j *Janitor) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.retention)

	alerts, err := j.store.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	entries, err := j.db.DeleteLogEntriesBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if alerts > 0 || entries > 0 {
		logging.Info().
			Int64("alerts_deleted", alerts).
			Int64("log_entries_deleted", entries).
			Time("cutoff", cutoff).
			Msg("retention sweep completed")
	}

	return nil
}
