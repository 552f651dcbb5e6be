// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package services

import (
	"context"
)

// RetentionJanitor matches *detection.Janitor's RunWithContext method.
type RetentionJanitor interface {
	RunWithContext(ctx context.Context) error
}

// RetentionService supervises the retention janitor, which deletes log
// entries and resolved alerts past the retention horizon on a fixed
// interval. A missed sweep is harmless; the next one catches up.
type RetentionService struct {
	janitor RetentionJanitor
	name    string
}

// NewRetentionService wraps the janitor as a supervised service.
func NewRetentionService(janitor RetentionJanitor) *RetentionService {
	return &RetentionService{
		janitor: janitor,
		name:    "retention-janitor",
	}
}

// Serve implements suture.Service.
func (r *RetentionService) Serve(ctx context.Context) error {
	return r.janitor.RunWithContext(ctx)
}

// String implements fmt.Stringer so suture logs name the service.
func (r *RetentionService) String() string {
	return r.name
}
