// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

//go:build !nats

package eventbus

import (
	"context"
	"errors"
	"testing"
)

// These tests pin the default-build behavior: every entry point fails
// with ErrBusNotEnabled and nothing panics.

func TestErrBusNotEnabled_Message(t *testing.T) {
	want := "NATS alert publishing not enabled (build with -tags nats)"
	if ErrBusNotEnabled.Error() != want {
		t.Errorf("Error() = %q, want %q", ErrBusNotEnabled.Error(), want)
	}
}

func TestStubPublisher(t *testing.T) {
	if _, err := NewPublisher(DefaultPublisherConfig("nats://127.0.0.1:4222"), nil); !errors.Is(err, ErrBusNotEnabled) {
		t.Errorf("NewPublisher() error = %v, want ErrBusNotEnabled", err)
	}

	ctx := context.Background()
	p := &Publisher{}
	p.SetCircuitBreaker(nil)

	if err := p.Publish(ctx, "auspex.alerts.high.brute_force_login", nil); !errors.Is(err, ErrBusNotEnabled) {
		t.Errorf("Publish() error = %v, want ErrBusNotEnabled", err)
	}
	if err := p.PublishAlert(ctx, testAlert()); !errors.Is(err, ErrBusNotEnabled) {
		t.Errorf("PublishAlert() error = %v, want ErrBusNotEnabled", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestStubEmbeddedServer(t *testing.T) {
	if _, err := NewEmbeddedServer(nil); !errors.Is(err, ErrBusNotEnabled) {
		t.Errorf("NewEmbeddedServer() error = %v, want ErrBusNotEnabled", err)
	}

	s := &EmbeddedServer{}
	if s.IsRunning() {
		t.Error("IsRunning() = true, want false")
	}
	if s.JetStreamEnabled() {
		t.Error("JetStreamEnabled() = true, want false")
	}
	if s.ClientURL() != "" {
		t.Errorf("ClientURL() = %q, want empty", s.ClientURL())
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v, want nil", err)
	}
}

func TestStubNotifierSend(t *testing.T) {
	n, err := NewAlertNotifier(&Publisher{})
	if err != nil {
		t.Fatalf("NewAlertNotifier() error = %v", err)
	}

	if err := n.Send(context.Background(), testAlert()); !errors.Is(err, ErrBusNotEnabled) {
		t.Errorf("Send() error = %v, want ErrBusNotEnabled", err)
	}
}
