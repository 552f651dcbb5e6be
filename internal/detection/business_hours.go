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
	defaultBusinessHoursStart = 8
	defaultBusinessHoursEnd   = 18

	businessHoursDedupWindow = time.Hour
)

// BusinessHoursRule fires on successful weekday logins outside the
// configured business hours. Weekends are skipped entirely rather than
// alerted on, since weekend activity would flood the feed. Hours are
// evaluated in UTC, matching the normalized event timestamps.
type BusinessHoursRule struct {
	startHour int
	endHour   int
}

// NewBusinessHoursRule builds the rule from detection config, falling
// back to 8-18 when the configured range is empty or inverted.
func NewBusinessHoursRule(cfg config.DetectionConfig) *BusinessHoursRule {
	start := cfg.BusinessHoursStart
	end := cfg.BusinessHoursEnd
	if start < 0 || end <= start || end > 24 {
		start = defaultBusinessHoursStart
		end = defaultBusinessHoursEnd
	}
	return &BusinessHoursRule{startHour: start, endHour: end}
}

func (r *BusinessHoursRule) Name() models.RuleName {
	return models.RuleOutsideBusinessHours
}

func (r *BusinessHoursRule) Severity() models.Severity {
	return models.SeverityMedium
}

func (r *BusinessHoursRule) Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error) {
	if event.Status != models.StatusSuccess || event.EventType != models.EventTypeLogin {
		return nil, nil
	}

	ts := event.Timestamp.UTC()
	weekday := ts.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return nil, nil
	}
	hour := ts.Hour()
	if hour >= r.startHour && hour < r.endHour {
		return nil, nil
	}

	since := event.Timestamp.Add(-businessHoursDedupWindow)
	dup, err := hasUnresolvedAlert(ctx, q, r.Name(), event, alertKey{bySourceIP: true, byUsername: true}, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, nil
	}

	return &Finding{
		Description: fmt.Sprintf("Login outside business hours detected for user %s from %s at %s (Business hours: %d:00 - %d:00).",
			event.Username, event.SourceIP, ts.Format("15:04"), r.startHour, r.endHour),
		Context: map[string]any{
			"username":       event.Username,
			"source_ip":      event.SourceIP,
			"login_time":     ts.Format(time.RFC3339),
			"business_hours": fmt.Sprintf("%d:00 - %d:00", r.startHour, r.endHour),
			"day_of_week":    weekday.String(),
		},
	}, nil
}
