// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/intel"
	"github.com/samvasq/auspex/internal/models"
)

const blacklistDedupWindow = time.Hour

// BlacklistRule fires on any event whose source IP is on the threat
// intelligence blacklist, regardless of event type or status.
type BlacklistRule struct {
	blacklist *intel.Blacklist
}

func NewBlacklistRule(blacklist *intel.Blacklist) *BlacklistRule {
	return &BlacklistRule{blacklist: blacklist}
}

func (r *BlacklistRule) Name() models.RuleName {
	return models.RuleBlacklistedIP
}

func (r *BlacklistRule) Severity() models.Severity {
	return models.SeverityCritical
}

func (r *BlacklistRule) Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error) {
	if r.blacklist == nil || event.SourceIP == "" {
		return nil, nil
	}
	if !r.blacklist.Contains(event.SourceIP) {
		return nil, nil
	}

	since := event.Timestamp.Add(-blacklistDedupWindow)
	dup, err := hasUnresolvedAlert(ctx, q, r.Name(), event, alertKey{bySourceIP: true}, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, nil
	}

	var countryCode any
	if event.CountryCode != nil {
		countryCode = *event.CountryCode
	}

	return &Finding{
		Description: fmt.Sprintf("Activity detected from blacklisted IP address: %s", event.SourceIP),
		Context: map[string]any{
			"source_ip":    event.SourceIP,
			"username":     event.Username,
			"event_type":   string(event.EventType),
			"status":       string(event.Status),
			"country_code": countryCode,
			"raw_log":      truncatedRawLog(event.RawLog),
		},
	}, nil
}
