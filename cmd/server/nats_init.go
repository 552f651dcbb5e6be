// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build nats

package main

import (
	"context"
	"sync"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/detection"
	"github.com/samvasq/auspex/internal/eventbus"
	"github.com/samvasq/auspex/internal/logging"
)

// NATSComponents holds the alert bus components for lifecycle management.
type NATSComponents struct {
	server    *eventbus.EmbeddedServer
	publisher *eventbus.Publisher

	mu      sync.Mutex
	running bool
}

// InitNATS wires alert publishing when NATS_ENABLED=true.
//
// Alerts flow one way out of the process: the alert manager announces,
// the registered notifier publishes to <prefix>.<severity>.<rule>
// subjects, and consumers subscribe on their own connections. The bus
// carries notifications only; DuckDB remains the system of record.
//
// Returns (nil, nil) when NATS is disabled so main can call this
// unconditionally.
func InitNATS(cfg *config.Config, manager *detection.Manager) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS alert publishing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS alert publishing...")

	components := &NATSComponents{}

	var natsURL string
	if cfg.NATS.EmbeddedServer {
		serverCfg := eventbus.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir

		server, err := eventbus.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, err
		}
		components.server = server
		natsURL = server.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		natsURL = cfg.NATS.URL
		logging.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	publisherCfg := eventbus.DefaultPublisherConfig(natsURL)
	if cfg.NATS.SubjectPrefix != "" {
		publisherCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
	}

	publisher, err := eventbus.NewPublisher(publisherCfg, nil)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, err
	}
	components.publisher = publisher
	logging.Info().
		Str("subject_prefix", publisherCfg.SubjectPrefix).
		Msg("NATS alert publisher created")

	notifier, err := eventbus.NewAlertNotifier(publisher)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, err
	}
	manager.RegisterNotifier(notifier)
	logging.Info().Msg("NATS notifier registered with alert manager")

	return components, nil
}

// Start marks the components running. The connection itself was opened
// eagerly by InitNATS and reconnects on its own; restarts after a
// supervisor-driven Shutdown are not supported, matching the process
// lifetime of the bus.
func (c *NATSComponents) Start(_ context.Context) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	return nil
}

// Shutdown stops the publisher before the embedded server so in-flight
// publishes drain against a live broker. Safe to call on nil components
// and safe to call twice.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing NATS publisher")
		}
		c.publisher = nil
	}

	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error stopping embedded NATS server")
		}
		c.server = nil
	}

	if c.running {
		c.running = false
		logging.Info().Msg("NATS alert publishing stopped")
	}
}

// IsRunning reports whether the components are active.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
