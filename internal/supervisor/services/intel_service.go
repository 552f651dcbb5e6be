// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package services

import (
	"context"
)

// FeedUpdater matches *intel.Updater's RunWithContext method.
type FeedUpdater interface {
	RunWithContext(ctx context.Context) error
}

// IntelFeedService supervises the blacklist feed updater. The blacklist
// keeps serving its last-known set while the updater is down, so a
// restart costs staleness, not availability.
type IntelFeedService struct {
	updater FeedUpdater
	name    string
}

// NewIntelFeedService wraps the updater as a supervised service.
func NewIntelFeedService(updater FeedUpdater) *IntelFeedService {
	return &IntelFeedService{
		updater: updater,
		name:    "intel-updater",
	}
}

// Serve implements suture.Service.
func (s *IntelFeedService) Serve(ctx context.Context) error {
	return s.updater.RunWithContext(ctx)
}

// String implements fmt.Stringer so suture logs name the service.
func (s *IntelFeedService) String() string {
	return s.name
}
