// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build nats

package services

import (
	"context"
	"fmt"
	"time"
)

// EventBusRunner matches the alert bus component lifecycle assembled in
// cmd/server. The interface keeps this package from importing main.
type EventBusRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventBusService wraps the alert bus as a supervised service. It adapts
// the Start/Shutdown lifecycle to suture's Serve pattern: start, block
// until the context is cancelled, then shut down with a bounded timeout.
type EventBusService struct {
	bus             EventBusRunner
	shutdownTimeout time.Duration
	name            string
}

// NewEventBusService wraps the bus components as a supervised service.
func NewEventBusService(bus EventBusRunner) *EventBusService {
	return &EventBusService{
		bus:             bus,
		shutdownTimeout: 10 * time.Second,
		name:            "event-bus",
	}
}

// Serve implements suture.Service. A Start failure returns immediately
// so suture restarts the service under its backoff policy.
func (s *EventBusService) Serve(ctx context.Context) error {
	if err := s.bus.Start(ctx); err != nil {
		return fmt.Errorf("alert bus start failed: %w", err)
	}

	<-ctx.Done()

	// Use a fresh context for shutdown since the original is canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.bus.Shutdown(shutdownCtx)

	return ctx.Err()
}

// String implements fmt.Stringer so suture logs name the service.
func (s *EventBusService) String() string {
	return s.name
}
