// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"math"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

// Rule is the uniform contract every detection rule implements. Check
// returns a non-nil Finding when the rule fires for the event, nil when it
// does not apply, and an error only on evaluation failure. The query
// handle is whatever transaction or connection the event was persisted on,
// so correlation lookups observe rows from the current ingest batch.
type Rule interface {
	Name() models.RuleName
	Severity() models.Severity
	Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error)
}

// Finding is a rule's positive result: the human-readable description and
// the structured context payload. Rule identity and severity are attached
// by the engine, which knows which rule produced it.
type Finding struct {
	Description string
	Context     map[string]any
}

// AlertSpec is one rule firing, ready to be persisted by the alert
// manager.
type AlertSpec struct {
	RuleName    models.RuleName
	Severity    models.Severity
	Description string
	Context     map[string]any
}

// Notifier delivers created alerts to an external channel such as a
// webhook endpoint.
type Notifier interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, alert *models.Alert) error
}

// AlertBroadcaster pushes alerts to live listeners, typically the
// WebSocket hub feeding dashboard clients.
type AlertBroadcaster interface {
	BroadcastAlert(alert *models.Alert)
}

// rawLogContextLimit caps raw log excerpts embedded in alert context.
const rawLogContextLimit = 500

// truncatedRawLog returns the raw log capped at rawLogContextLimit bytes,
// or nil when the event carried no raw line so the context serializes the
// absence as JSON null.
func truncatedRawLog(raw string) any {
	if raw == "" {
		return nil
	}
	if len(raw) > rawLogContextLimit {
		return raw[:rawLogContextLimit]
	}
	return raw
}

// roundTo2 rounds to two decimal places for context payloads.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
