// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/samvasq/auspex/internal/cache"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

const privilegeDedupWindow = 30 * time.Minute

// escalationEventTypes are event types that signal privilege escalation
// directly. An event carrying one of these always alerts, with no
// deduplication, because each occurrence is an independent action.
var escalationEventTypes = map[models.EventType]struct{}{
	models.EventTypePrivilegeEscalation: {},
	models.EventTypeAdminAccess:         {},
	models.EventTypeSudo:                {},
	models.EventTypeSu:                  {},
}

// escalationKeywords is the ordered keyword list scanned against raw log
// text. Order matters: when several keywords match, the first in this
// list is reported. Matches are case-insensitive substrings, so "su"
// also hits words that merely contain it.
var escalationKeywords = []string{
	"sudo", "su", "admin", "root", "elevate",
	"privilege", "runas", "impersonate", "escalate",
}

// PrivilegeEscalationRule fires on escalation-typed events and on raw log
// lines mentioning an escalation keyword.
type PrivilegeEscalationRule struct {
	matcher *cache.PatternMatcher
}

func NewPrivilegeEscalationRule() *PrivilegeEscalationRule {
	return &PrivilegeEscalationRule{
		matcher: cache.NewPatternMatcherFromSlice(escalationKeywords, nil),
	}
}

func (r *PrivilegeEscalationRule) Name() models.RuleName {
	return models.RulePrivilegeEscalation
}

func (r *PrivilegeEscalationRule) Severity() models.Severity {
	return models.SeverityHigh
}

func (r *PrivilegeEscalationRule) Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error) {
	if _, ok := escalationEventTypes[event.EventType]; ok {
		return &Finding{
			Description: fmt.Sprintf("Privilege escalation attempt detected for user %s from %s",
				event.Username, event.SourceIP),
			Context: map[string]any{
				"username":   event.Username,
				"source_ip":  event.SourceIP,
				"event_type": string(event.EventType),
				"status":     string(event.Status),
				"raw_log":    truncatedRawLog(event.RawLog),
			},
		}, nil
	}

	if event.RawLog == "" {
		return nil, nil
	}
	matched := r.matcher.MatchedSet(event.RawLog)
	if len(matched) == 0 {
		return nil, nil
	}

	keyword := ""
	for _, kw := range escalationKeywords {
		if matched[kw] {
			keyword = kw
			break
		}
	}

	since := event.Timestamp.Add(-privilegeDedupWindow)
	dup, err := hasUnresolvedAlert(ctx, q, r.Name(), event, alertKey{byUsername: true}, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, nil
	}

	return &Finding{
		Description: fmt.Sprintf("Potential privilege escalation detected for user %s from %s. Keyword: %s",
			event.Username, event.SourceIP, keyword),
		Context: map[string]any{
			"username":   event.Username,
			"source_ip":  event.SourceIP,
			"keyword":    keyword,
			"event_type": string(event.EventType),
			"status":     string(event.Status),
			"raw_log":    truncatedRawLog(event.RawLog),
		},
	}, nil
}
