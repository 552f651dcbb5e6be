// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// startHub creates a hub, runs it under a test-scoped context, and
// stops it during cleanup.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(10 * time.Millisecond)
	return hub
}

// newTestClient builds a hub-only client with no connection behind it.
func newTestClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, 256),
	}
}

// registerClient registers a client and waits for the hub to pick it up.
func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	want := hub.ClientCount() + 1
	hub.Register <- client
	waitForClientCount(t, hub, want)
}

// waitForClientCount polls until the hub reports the wanted count.
func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	for i := 0; i < 50; i++ {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
}

func testAlert() *models.Alert {
	ip := "203.0.113.50"
	user := "admin"
	return &models.Alert{
		ID:          1,
		AlertID:     uuid.NewString(),
		RuleName:    models.RuleBruteForceLogin,
		Severity:    models.SeverityHigh,
		Description: "5 failed login attempts from 203.0.113.50",
		SourceIP:    &ip,
		Username:    &user,
		TriggeredAt: time.Date(2024, 5, 1, 10, 4, 0, 0, time.UTC),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	checks := []struct {
		check  bool
		errMsg string
	}{
		{hub.clients != nil, "clients map not initialized"},
		{hub.broadcast != nil, "broadcast channel not initialized"},
		{hub.Register != nil, "Register channel not initialized"},
		{hub.Unregister != nil, "Unregister channel not initialized"},
		{len(hub.clients) == 0, "clients map should start empty"},
	}
	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub()
	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients initially, got %d", hub.ClientCount())
	}

	for i := 0; i < 5; i++ {
		hub.clients[newTestClient(hub)] = true
	}
	if hub.ClientCount() != 5 {
		t.Errorf("Expected 5 clients, got %d", hub.ClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub)

	registerClient(t, hub, client)
	hub.mu.RLock()
	registered := hub.clients[client]
	hub.mu.RUnlock()
	if !registered {
		t.Error("Client should be registered")
	}

	hub.Unregister <- client
	waitForClientCount(t, hub, 0)

	// The hub closes the send channel on unregister.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("Expected send channel closed after unregister")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Send channel not closed after unregister")
	}
}

func TestHub_UnregisterUnknownClient(t *testing.T) {
	hub := startHub(t)

	hub.Unregister <- newTestClient(hub)
	time.Sleep(20 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHub_BroadcastAlert(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub)
	registerClient(t, hub, client)

	alert := testAlert()
	hub.BroadcastAlert(alert)

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeAlert {
			t.Errorf("Type = %q, want %q", msg.Type, MessageTypeAlert)
		}
		got, ok := msg.Data.(*models.Alert)
		if !ok {
			t.Fatalf("Expected *models.Alert payload, got %T", msg.Data)
		}
		if got.AlertID != alert.AlertID {
			t.Errorf("AlertID = %q, want %q", got.AlertID, alert.AlertID)
		}
		if got.Severity != models.SeverityHigh {
			t.Errorf("Severity = %q, want High", got.Severity)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for alert message")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := startHub(t)

	const numClients = 3
	clients := make([]*Client, numClients)
	for i := range clients {
		clients[i] = newTestClient(hub)
		registerClient(t, hub, clients[i])
	}

	var mu sync.Mutex
	received := make([]bool, numClients)
	var wg sync.WaitGroup
	for i := range clients {
		wg.Add(1)
		go func(idx int, c *Client) {
			defer wg.Done()
			select {
			case msg := <-c.send:
				if msg.Type == MessageTypeAlert {
					mu.Lock()
					received[idx] = true
					mu.Unlock()
				}
			case <-time.After(500 * time.Millisecond):
			}
		}(i, clients[i])
	}

	hub.BroadcastAlert(testAlert())
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, r := range received {
		if !r {
			t.Errorf("Client %d did not receive the alert", i)
		}
	}
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub)
	registerClient(t, hub, client)

	hub.BroadcastJSON("stats_refresh", map[string]int{"alert_count": 7})

	select {
	case msg := <-client.send:
		if msg.Type != "stats_refresh" {
			t.Errorf("Type = %q, want stats_refresh", msg.Type)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestHub_SlowClientDisconnected(t *testing.T) {
	hub := startHub(t)

	// One-slot buffer that is pre-filled, so the next fan-out cannot
	// deliver and the hub must drop the client.
	client := &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, 1)}
	registerClient(t, hub, client)
	client.send <- Message{Type: "filler"}

	hub.BroadcastAlert(testAlert())
	waitForClientCount(t, hub, 0)
}

func TestHub_EnqueueNeverBlocks(t *testing.T) {
	hub := NewHub() // not running, so the broadcast queue fills up

	for i := 0; i < 256; i++ {
		hub.BroadcastAlert(testAlert())
	}
	// One past capacity must hit the drop path without blocking.
	hub.BroadcastAlert(testAlert())
}

func TestHub_RunWithContext(t *testing.T) {
	t.Run("returns on cancellation", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("RunWithContext did not return after cancellation")
		}
	})

	t.Run("returns on deadline", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Expected context.DeadlineExceeded, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("RunWithContext did not return after deadline")
		}
	})

	t.Run("closes clients on shutdown", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		clients := make([]*Client, 3)
		for i := range clients {
			clients[i] = newTestClient(hub)
			hub.Register <- clients[i]
		}
		waitForClientCount(t, hub, 3)

		cancel()
		select {
		case <-errCh:
		case <-time.After(time.Second):
			t.Fatal("RunWithContext did not return after cancellation")
		}

		if hub.ClientCount() != 0 {
			t.Errorf("Expected 0 clients after shutdown, got %d", hub.ClientCount())
		}
		for i, client := range clients {
			select {
			case _, ok := <-client.send:
				if ok {
					t.Errorf("Client %d send channel not closed", i)
				}
			default:
				t.Errorf("Client %d send channel not closed", i)
			}
		}
	})

	t.Run("delivers before shutdown", func(t *testing.T) {
		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		client := newTestClient(hub)
		hub.Register <- client
		waitForClientCount(t, hub, 1)

		hub.BroadcastAlert(testAlert())
		select {
		case msg := <-client.send:
			if msg.Type != MessageTypeAlert {
				t.Errorf("Type = %q, want %q", msg.Type, MessageTypeAlert)
			}
		case <-time.After(time.Second):
			t.Error("Did not receive alert before shutdown")
		}

		cancel()
		<-errCh
	})
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := startHub(t)
	done := make(chan bool)

	go func() {
		for i := 0; i < 10; i++ {
			hub.Register <- newTestClient(hub)
			time.Sleep(2 * time.Millisecond)
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 20; i++ {
			hub.BroadcastAlert(testAlert())
			time.Sleep(2 * time.Millisecond)
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 50; i++ {
			hub.ClientCount()
			time.Sleep(time.Millisecond)
		}
		done <- true
	}()

	for i := 0; i < 3; i++ {
		<-done
	}
	waitForClientCount(t, hub, 10)
}

func TestShutdownReasons(t *testing.T) {
	// These strings appear in log output consumed by aggregators.
	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := shutdownReason(canceledCtx); got != ShutdownReasonContextCanceled {
		t.Errorf("shutdownReason = %q, want %q", got, ShutdownReasonContextCanceled)
	}

	deadlineCtx, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	time.Sleep(10 * time.Millisecond)
	if got := shutdownReason(deadlineCtx); got != ShutdownReasonContextDeadline {
		t.Errorf("shutdownReason = %q, want %q", got, ShutdownReasonContextDeadline)
	}
}

func BenchmarkHub_BroadcastAlert(b *testing.B) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 10; i++ {
		client := newTestClient(hub)
		hub.Register <- client
		go func(c *Client) {
			for range c.send {
			}
		}(client)
	}
	time.Sleep(100 * time.Millisecond)

	alert := testAlert()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hub.BroadcastAlert(alert)
	}
}
