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
	"github.com/samvasq/auspex/internal/geo"
	"github.com/samvasq/auspex/internal/models"
)

const (
	// travelLookback bounds how far back a prior login is considered.
	travelLookback = time.Hour

	// minTravelDistanceKm filters out nearby logins and geolocation
	// jitter between adjacent cities.
	minTravelDistanceKm = 1000.0

	// maxTravelSpeedKmH is the plausibility ceiling, roughly commercial
	// flight speed.
	maxTravelSpeedKmH = 800.0
)

// ImpossibleTravelRule fires when a user logs in successfully from two
// locations that no flight could connect in the elapsed time.
type ImpossibleTravelRule struct{}

func NewImpossibleTravelRule() *ImpossibleTravelRule {
	return &ImpossibleTravelRule{}
}

func (r *ImpossibleTravelRule) Name() models.RuleName {
	return models.RuleImpossibleTravel
}

func (r *ImpossibleTravelRule) Severity() models.Severity {
	return models.SeverityCritical
}

func (r *ImpossibleTravelRule) Check(ctx context.Context, q database.Querier, event *models.LogEntry) (*Finding, error) {
	if event.Status != models.StatusSuccess || event.EventType != models.EventTypeLogin {
		return nil, nil
	}
	if event.Username == "" || event.SourceIP == "" {
		return nil, nil
	}
	// Private and unresolvable IPs carry no coordinates, so internal
	// traffic never trips this rule.
	if !event.HasLocation() {
		return nil, nil
	}

	since := event.Timestamp.Add(-travelLookback)
	prev, err := previousLogin(ctx, q, event.Username, event.SourceIP, since, event.Timestamp)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	distance := geo.Distance(*prev.Latitude, *prev.Longitude, *event.Latitude, *event.Longitude)
	if distance < minTravelDistanceKm {
		return nil, nil
	}

	hours := event.Timestamp.Sub(prev.Timestamp).Hours()
	minHoursRequired := distance / maxTravelSpeedKmH
	if hours >= minHoursRequired {
		return nil, nil
	}

	dup, err := hasUnresolvedAlert(ctx, q, r.Name(), event, alertKey{byUsername: true}, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, nil
	}

	prevCC := ""
	if prev.CountryCode != nil {
		prevCC = *prev.CountryCode
	}
	curCC := ""
	if event.CountryCode != nil {
		curCC = *event.CountryCode
	}

	return &Finding{
		Description: fmt.Sprintf("Impossible travel detected for user %s. Login from %s (%s) to %s (%s) covering %.0f km in %.2f hours.",
			event.Username, prev.SourceIP, prevCC, event.SourceIP, curCC, distance, hours),
		Context: map[string]any{
			"username":           event.Username,
			"previous_ip":        prev.SourceIP,
			"previous_location":  fmt.Sprintf("%s (%v, %v)", prevCC, *prev.Latitude, *prev.Longitude),
			"current_ip":         event.SourceIP,
			"current_location":   fmt.Sprintf("%s (%v, %v)", curCC, *event.Latitude, *event.Longitude),
			"distance_km":        roundTo2(distance),
			"time_hours":         roundTo2(hours),
			"previous_timestamp": prev.Timestamp.UTC().Format(time.RFC3339),
		},
	}, nil
}
