// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package eventbus

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/samvasq/auspex/internal/models"
)

// SchemaVersion is the current envelope schema version. Increment on
// breaking changes to AlertEnvelope.
const SchemaVersion = 1

// DefaultSubjectPrefix is the subject prefix when none is configured.
const DefaultSubjectPrefix = "auspex.alerts"

// envelopeSource identifies this application in published envelopes.
const envelopeSource = "auspex"

// AlertEnvelope is the wire format for published alerts. Consumers
// should tolerate envelopes without a schema_version; those are
// version 1.
type AlertEnvelope struct {
	SchemaVersion int           `json:"schema_version"`
	Source        string        `json:"source"`
	PublishedAt   time.Time     `json:"published_at"`
	Alert         *models.Alert `json:"alert"`
}

// EncodeAlert wraps the alert in an envelope and marshals it. The alert
// must carry its public id and rule name.
func EncodeAlert(alert *models.Alert) ([]byte, error) {
	if alert == nil {
		return nil, ErrNilAlert
	}
	if alert.AlertID == "" {
		return nil, fmt.Errorf("alert missing alert_id")
	}
	if alert.RuleName == "" {
		return nil, fmt.Errorf("alert %s missing rule_name", alert.AlertID)
	}

	env := AlertEnvelope{
		SchemaVersion: SchemaVersion,
		Source:        envelopeSource,
		PublishedAt:   time.Now().UTC(),
		Alert:         alert,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal alert envelope: %w", err)
	}

	return data, nil
}

// DecodeAlert unmarshals a published envelope. Envelopes with no
// schema_version are treated as version 1.
func DecodeAlert(data []byte) (*AlertEnvelope, error) {
	var env AlertEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal alert envelope: %w", err)
	}
	if env.Alert == nil {
		return nil, fmt.Errorf("alert envelope missing alert")
	}
	if env.SchemaVersion == 0 {
		env.SchemaVersion = 1
	}

	return &env, nil
}

// SubjectFor returns the NATS subject for an alert:
// <prefix>.<severity>.<rule>, severity lowercased. Empty fields fall
// back to "unknown" so the subject always has the same token count.
func SubjectFor(prefix string, alert *models.Alert) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	severity := strings.ToLower(string(alert.Severity))
	if severity == "" {
		severity = "unknown"
	}

	rule := string(alert.RuleName)
	if rule == "" {
		rule = "unknown"
	}

	return prefix + "." + severity + "." + rule
}
