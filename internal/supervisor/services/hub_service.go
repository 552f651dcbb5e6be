// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package services

import (
	"context"
)

// AlertHub matches *websocket.Hub's RunWithContext method.
type AlertHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService supervises the live alert feed hub. The hub's
// RunWithContext already follows the suture.Service pattern, so the
// wrapper only delegates and supplies a name for logging.
type WebSocketHubService struct {
	hub  AlertHub
	name string
}

// NewWebSocketHubService wraps the hub as a supervised service.
func NewWebSocketHubService(hub AlertHub) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service. On restart the hub comes back empty;
// dashboard clients reconnect through the API's /ws endpoint.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer so suture logs name the service.
func (w *WebSocketHubService) String() string {
	return w.name
}
