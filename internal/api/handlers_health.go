// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http"
	"time"

	"github.com/samvasq/auspex/internal/models"
)

// Health handles GET /health.
//
// Liveness plus a database ping. The response is always 200; a failed
// ping shows up as status "degraded" so monitors can alert on the body
// without the probe itself flapping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, "", &models.HealthStatus{
		Status:            status,
		DatabaseConnected: dbConnected,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	})
}
