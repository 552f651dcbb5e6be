// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samvasq/auspex/internal/config"
	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/detection"
	"github.com/samvasq/auspex/internal/ingest"
	"github.com/samvasq/auspex/internal/logging"
	ws "github.com/samvasq/auspex/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files by endpoint group:
//   - handlers.go: Handler struct, constructor, WebSocket origin checks
//   - handlers_ingest.go: log submission endpoints
//   - handlers_events.go: event search and detail
//   - handlers_alerts.go: alert listing and lifecycle
//   - handlers_export.go: CSV/JSON alert export
//   - handlers_dashboard.go: dashboard statistics
//   - handlers_websocket.go: live alert feed upgrade
//   - handlers_health.go: liveness
type Handler struct {
	config    *config.Config
	db        *database.DB
	alerts    *detection.Manager
	ingester  *ingest.Service
	hub       *ws.Hub
	startTime time.Time
}

// NewHandler creates a new API handler with its dependencies. Alert
// reads and lifecycle actions go through the manager so analyst
// operations are recorded once, in one place. hub may be nil when the
// live feed is disabled; the WebSocket endpoint then answers 503.
func NewHandler(cfg *config.Config, db *database.DB, alerts *detection.Manager, ingester *ingest.Service, hub *ws.Hub) *Handler {
	return &Handler{
		config:    cfg,
		db:        db,
		alerts:    alerts,
		ingester:  ingester,
		hub:       hub,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against
// the configured CORS origins. Browser WebSockets always send Origin;
// an empty header means a non-browser client bypassing CORS, so it is
// rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Nil config means a test harness; fail open.
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.API.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
