// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

import "time"

// EventFilter narrows log entry searches. Zero-value string fields and nil
// times mean "no constraint". Limit of 0 falls back to the API default.
type EventFilter struct {
	SourceIP  string     `json:"source_ip,omitempty"`
	Username  string     `json:"username,omitempty"`
	EventType string     `json:"event_type,omitempty"`
	Status    string     `json:"status,omitempty"`
	Start     *time.Time `json:"start_date,omitempty"`
	End       *time.Time `json:"end_date,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// AlertFilter narrows alert listings and exports. Resolved is tri-state:
// nil means both resolved and unresolved alerts are returned.
type AlertFilter struct {
	Severity string     `json:"severity,omitempty"`
	RuleName string     `json:"rule_name,omitempty"`
	Resolved *bool      `json:"resolved,omitempty"`
	Start    *time.Time `json:"start_date,omitempty"`
	End      *time.Time `json:"end_date,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}
