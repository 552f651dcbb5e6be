// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build nats

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockBusRunner is a test double for the EventBusRunner interface.
type mockBusRunner struct {
	startErr error
	started  atomic.Bool
	running  atomic.Bool
}

func (m *mockBusRunner) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.started.Store(true)
	m.running.Store(true)
	return nil
}

func (m *mockBusRunner) Shutdown(_ context.Context) {
	m.running.Store(false)
}

func (m *mockBusRunner) IsRunning() bool {
	return m.running.Load()
}

func TestEventBusService_Interface(t *testing.T) {
	var _ suture.Service = (*EventBusService)(nil)
}

func TestEventBusService_Serve(t *testing.T) {
	t.Run("shuts down on context cancellation", func(t *testing.T) {
		bus := &mockBusRunner{}
		svc := NewEventBusService(bus)

		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- svc.Serve(ctx)
		}()

		deadline := time.After(time.Second)
		for !bus.started.Load() {
			select {
			case <-deadline:
				t.Fatal("bus did not start")
			case <-time.After(10 * time.Millisecond):
			}
		}

		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return after context cancellation")
		}

		if bus.IsRunning() {
			t.Error("bus should have been shut down")
		}
	})

	t.Run("propagates start error for restart", func(t *testing.T) {
		startErr := errors.New("connection refused")
		bus := &mockBusRunner{startErr: startErr}
		svc := NewEventBusService(bus)

		err := svc.Serve(context.Background())
		if !errors.Is(err, startErr) {
			t.Errorf("expected error wrapping %v, got %v", startErr, err)
		}
	})
}

func TestEventBusService_String(t *testing.T) {
	svc := NewEventBusService(&mockBusRunner{})
	if svc.String() != "event-bus" {
		t.Errorf("expected name 'event-bus', got %q", svc.String())
	}
}
