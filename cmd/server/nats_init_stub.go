// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build !nats

package main

import (
	"context"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/detection"
	"github.com/samvasq/auspex/internal/logging"
)

// NATSComponents is a stub for non-NATS builds.
type NATSComponents struct{}

// InitNATS is a no-op stub for non-NATS builds.
// Returns nil to indicate NATS is not available.
func InitNATS(cfg *config.Config, _ *detection.Manager) (*NATSComponents, error) {
	if cfg.NATS.Enabled {
		logging.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats)")
	}
	return nil, nil
}

// Start is a no-op stub for non-NATS builds.
func (c *NATSComponents) Start(_ context.Context) error {
	return nil
}

// Shutdown is a no-op stub for non-NATS builds.
func (c *NATSComponents) Shutdown(_ context.Context) {}

// IsRunning returns false for non-NATS builds.
func (c *NATSComponents) IsRunning() bool {
	return false
}
