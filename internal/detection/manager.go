// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/metrics"
	"github.com/samvasq/auspex/internal/models"
)

// DefaultAnalyst is recorded when lifecycle operations omit the analyst.
const DefaultAnalyst = "System"

// Manager owns the alert lifecycle: creating alerts from rule firings,
// announcing them to notifiers and live listeners, and the analyst
// operations acknowledge, resolve, and annotate.
type Manager struct {
	store       *Store
	notifiers   []Notifier
	broadcaster AlertBroadcaster
}

// NewManager wraps the alert store. Notifiers and the broadcaster are
// attached separately during startup wiring.
func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// RegisterNotifier adds a delivery channel for new alerts.
func (m *Manager) RegisterNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// SetBroadcaster attaches the live listener feed.
func (m *Manager) SetBroadcaster(b AlertBroadcaster) {
	m.broadcaster = b
}

// Create persists one rule firing as an alert. The alert inherits the
// triggering event's source IP, username, and id, and anchors
// triggered_at to the event timestamp so dedup windows track event time
// rather than ingest time. Without an origin event the wall clock is
// used. Runs on any Querier so batch ingestion creates alerts inside the
// batch transaction.
func (m *Manager) Create(ctx context.Context, q database.Querier, spec AlertSpec, event *models.LogEntry) (*models.Alert, error) {
	alert := &models.Alert{
		AlertID:     uuid.NewString(),
		RuleName:    spec.RuleName,
		Severity:    spec.Severity,
		Description: spec.Description,
		TriggeredAt: time.Now().UTC(),
	}

	if event != nil {
		alert.TriggeredAt = event.Timestamp
		if event.SourceIP != "" {
			v := event.SourceIP
			alert.SourceIP = &v
		}
		if event.Username != "" {
			v := event.Username
			alert.Username = &v
		}
		if event.ID != 0 {
			v := event.ID
			alert.LogEntryID = &v
		}
	}

	if len(spec.Context) > 0 {
		raw, err := json.Marshal(spec.Context)
		if err != nil {
			return nil, fmt.Errorf("failed to encode alert context: %w", err)
		}
		alert.Context = raw
	}

	if err := CreateAlert(ctx, q, alert); err != nil {
		return nil, err
	}

	metrics.RecordAlert(string(spec.RuleName), string(spec.Severity))

	return alert, nil
}

// Announce delivers committed alerts to the broadcaster and all enabled
// notifiers. Call it after the enclosing transaction commits; announcing
// earlier would leak alerts that may still roll back. Notifier sends run
// in goroutines so a slow webhook never stalls the ingest response.
func (m *Manager) Announce(ctx context.Context, alerts []*models.Alert) {
	for _, alert := range alerts {
		if alert == nil {
			continue
		}

		if m.broadcaster != nil {
			m.broadcaster.BroadcastAlert(alert)
		}

		for _, notifier := range m.notifiers {
			if !notifier.Enabled() {
				continue
			}
			go func(n Notifier, a *models.Alert) {
				err := n.Send(ctx, a)
				metrics.RecordNotification(n.Name(), err)
				if err != nil {
					logging.Error().
						Err(err).
						Str("notifier", n.Name()).
						Str("alert_id", a.AlertID).
						Msg("alert notification failed")
				}
			}(notifier, alert)
		}
	}
}

// Get returns the alert by public id, or ErrNotFound.
func (m *Manager) Get(ctx context.Context, alertID string) (*models.Alert, error) {
	alert, err := m.store.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, database.ErrNotFound
	}
	return alert, nil
}

// GetDetail returns the alert with its origin log entry reference, or
// ErrNotFound.
func (m *Manager) GetDetail(ctx context.Context, alertID string) (*models.AlertDetail, error) {
	detail, err := m.store.GetDetail(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, database.ErrNotFound
	}
	return detail, nil
}

// List returns alerts matching the filter plus the total matching count.
func (m *Manager) List(ctx context.Context, filter models.AlertFilter) ([]models.Alert, int64, error) {
	return m.store.List(ctx, filter)
}

// ListForExport returns every alert matching the filter, unpaginated.
func (m *Manager) ListForExport(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	return m.store.ListForExport(ctx, filter)
}

// Statistics returns unresolved alert counts by severity.
func (m *Manager) Statistics(ctx context.Context) (*models.AlertStats, error) {
	return m.store.Statistics(ctx)
}

// Acknowledge marks the alert acknowledged and returns the updated
// alert. An empty analyst defaults to DefaultAnalyst.
func (m *Manager) Acknowledge(ctx context.Context, alertID, analyst string) (*models.Alert, error) {
	if analyst == "" {
		analyst = DefaultAnalyst
	}
	if err := m.store.Acknowledge(ctx, alertID, analyst); err != nil {
		return nil, err
	}

	metrics.AlertsAcknowledged.Inc()

	return m.Get(ctx, alertID)
}

// Resolve marks the alert resolved, stamping the acknowledgement too if
// it never happened, and returns the updated alert.
func (m *Manager) Resolve(ctx context.Context, alertID, analyst string) (*models.Alert, error) {
	if analyst == "" {
		analyst = DefaultAnalyst
	}
	if err := m.store.Resolve(ctx, alertID, analyst); err != nil {
		return nil, err
	}

	metrics.AlertsResolved.Inc()

	return m.Get(ctx, alertID)
}

// SetNotes stores analyst notes on the alert, replacing any existing
// notes, and returns the updated alert.
func (m *Manager) SetNotes(ctx context.Context, alertID, notes string) (*models.Alert, error) {
	if err := m.store.SetNotes(ctx, alertID, notes); err != nil {
		return nil, err
	}
	return m.Get(ctx, alertID)
}
