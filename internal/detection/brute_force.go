// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package detection

import (
	"context"
	"fmt"
	"time"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

const (
	defaultBruteForceThreshold = 5
	defaultBruteForceWindow    = 10 * time.Minute
)

// BruteForceRule fires when a single source IP accumulates too many
// failed logins inside the sliding window ending at the event.
type BruteForceRule struct {
	threshold int64
	window    time.Duration
}

// NewBruteForceRule builds the rule from detection config, falling back
// to the standard threshold and window when unset.
func NewBruteForceRule(cfg config.DetectionConfig) *BruteForceRule {
	threshold := int64(cfg.BruteForceThreshold)
	if threshold <= 0 {
		threshold = defaultBruteForceThreshold
	}
	window := cfg.BruteForceWindow
	if window <= 0 {
		window = defaultBruteForceWindow
	}
	return &BruteForceRule{threshold: threshold, window: window}
}

func (r *BruteForceRule) Name() models.RuleName {
	return models.RuleBruteForceLogin
}

func (r *BruteForceRule) Severity() models.Severity {
	return models.SeverityHigh
}

func (r *BruteForceRule) Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error) {
	if event.Status != models.StatusFailed || event.EventType != models.EventTypeLogin {
		return nil, nil
	}
	if event.SourceIP == "" {
		return nil, nil
	}

	since := event.Timestamp.Add(-r.window)
	count, err := countFailedLogins(ctx, q, event.SourceIP, since, event.Timestamp)
	if err != nil {
		return nil, err
	}
	if count < r.threshold {
		return nil, nil
	}

	dup, err := hasUnresolvedAlert(ctx, q, r.Name(), event, alertKey{bySourceIP: true}, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, nil
	}

	windowMinutes := int(r.window.Minutes())
	affected := []string{}
	if event.Username != "" {
		affected = append(affected, event.Username)
	}

	return &Finding{
		Description: fmt.Sprintf("Brute-force login attempt detected from %s. %d failed attempts in %d minutes.",
			event.SourceIP, count, windowMinutes),
		Context: map[string]any{
			"source_ip":           event.SourceIP,
			"failed_attempts":     count,
			"time_window_minutes": windowMinutes,
			"affected_users":      affected,
		},
	}, nil
}
