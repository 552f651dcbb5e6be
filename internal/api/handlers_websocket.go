// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http"

	"github.com/samvasq/auspex/internal/logging"
	ws "github.com/samvasq/auspex/internal/websocket"
)

// WebSocket handles GET /api/v1/ws.
//
// Upgrades the connection and registers it with the hub for the live
// alert feed. Clients receive every alert committed after they join;
// earlier ones must be fetched through the listing endpoints.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "Live alert feed is not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure; a second
		// response would be invalid.
		logging.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
