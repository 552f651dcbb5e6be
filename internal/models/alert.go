// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Severity ranks how urgent an alert is.
type Severity string

// Severity levels, highest first. Persisted and serialized with this exact
// capitalization.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// ValidSeverities contains all valid severity values for validation.
var ValidSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// IsValidSeverity checks if a severity value is valid.
func IsValidSeverity(s Severity) bool {
	for _, v := range ValidSeverities {
		if v == s {
			return true
		}
	}
	return false
}

// RuleName identifies a detection rule.
type RuleName string

// The detection rules, in evaluation order.
const (
	RuleBruteForceLogin      RuleName = "brute_force_login"
	RuleImpossibleTravel     RuleName = "impossible_travel"
	RuleOutsideBusinessHours RuleName = "login_outside_business_hours"
	RulePrivilegeEscalation  RuleName = "privilege_escalation"
	RuleBlacklistedIP        RuleName = "blacklisted_ip"
)

// ValidRuleNames contains all valid rule names for validation.
var ValidRuleNames = []RuleName{
	RuleBruteForceLogin,
	RuleImpossibleTravel,
	RuleOutsideBusinessHours,
	RulePrivilegeEscalation,
	RuleBlacklistedIP,
}

// IsValidRuleName checks if a rule name is valid.
func IsValidRuleName(r RuleName) bool {
	for _, v := range ValidRuleNames {
		if v == r {
			return true
		}
	}
	return false
}

// Alert represents a persistent record of a detection rule firing.
//
// Key Features:
//   - AlertID is the external identity (UUID string); ID is internal
//   - TriggeredAt is the triggering event's timestamp, not insert time,
//     so replayed historical logs deduplicate deterministically
//   - Context is an opaque JSON payload owned by the producing rule;
//     nothing indexes into it
//   - Resolve implies acknowledge: a resolved alert always carries both
//     sets of lifecycle fields
type Alert struct {
	ID      int64  `json:"id"`
	AlertID string `json:"alert_id"`

	// Rule output
	RuleName    RuleName        `json:"rule_name"`
	Severity    Severity        `json:"severity"`
	Description string          `json:"description"`
	Context     json.RawMessage `json:"context,omitempty"`

	// Triggering event
	SourceIP   *string `json:"source_ip,omitempty"`
	Username   *string `json:"username,omitempty"`
	LogEntryID *int64  `json:"log_entry_id,omitempty"`

	TriggeredAt time.Time `json:"triggered_at"`

	// Lifecycle
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	Resolved       bool       `json:"resolved"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	Notes          *string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// LogEntryRef is the snippet of the triggering event attached to an alert
// detail response.
type LogEntryRef struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	RawLog      string    `json:"raw_log"`
	CountryCode *string   `json:"country_code,omitempty"`
}

// AlertDetail is an alert with its linked log entry attached.
type AlertDetail struct {
	Alert
	LogEntry *LogEntryRef `json:"log_entry,omitempty"`
}
