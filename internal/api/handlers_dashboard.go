// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"net/http"

	"github.com/samvasq/auspex/internal/models"
)

// DashboardStats handles GET /api/v1/dashboard/stats.
//
// Returns the total stored log count, unresolved alert counts grouped
// by severity, and the most recent unresolved alerts (limit 50 by
// default, optionally narrowed to one severity). total_alerts is the
// unresolved total, matching the severity map.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalLogs, err := h.db.CountLogEntries(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	stats, err := h.alerts.Statistics(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	limit := getIntParam(r, "limit", 50)
	_, max := h.pageDefaults()
	if limit <= 0 {
		limit = 50
	}
	if limit > max {
		limit = max
	}

	unresolved := false
	recent, _, err := h.alerts.List(ctx, models.AlertFilter{
		Severity: r.URL.Query().Get("severity"),
		Resolved: &unresolved,
		Limit:    limit,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "", &models.DashboardStats{
		TotalLogs:        totalLogs,
		AlertsBySeverity: stats.ToMap(),
		RecentAlerts:     recent,
		TotalAlerts:      stats.Total,
	})
}
