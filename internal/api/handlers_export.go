// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

// csvExportHeader is the fixed column order for alert exports. SOC
// reporting pipelines key on these names; do not reorder.
var csvExportHeader = []string{
	"Alert ID", "Rule Name", "Severity", "Description",
	"Source IP", "Username", "Triggered At", "Acknowledged", "Resolved",
}

// ExportAlerts handles GET /api/v1/alerts/export.
//
// Streams every alert matching the filter as a CSV or JSON attachment.
// format defaults to csv; anything else than csv or json is a 400, as
// is a malformed date bound.
func (h *Handler) ExportAlerts(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Unsupported export format: use csv or json", nil)
		return
	}

	filter, err := h.buildAlertFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	alerts, err := h.alerts.ListForExport(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	filename := fmt.Sprintf("alerts_export_%s.%s", time.Now().Format("20060102_150405"), format)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Cache-Control", "no-store")

	if format == "json" {
		writeJSONExport(w, alerts)
		return
	}
	writeCSVExport(w, alerts)
}

// writeCSVExport writes the fixed-column CSV body. Descriptions embed
// fragments of raw log lines, so rows go through encoding/csv for
// correct quoting.
func writeCSVExport(w http.ResponseWriter, alerts []models.Alert) {
	w.Header().Set("Content-Type", "text/csv")

	cw := csv.NewWriter(w)
	if err := cw.Write(csvExportHeader); err != nil {
		logging.Error().Err(err).Msg("Failed to write CSV export header")
		return
	}

	for i := range alerts {
		a := &alerts[i]
		row := []string{
			a.AlertID,
			string(a.RuleName),
			string(a.Severity),
			a.Description,
			stringOrEmpty(a.SourceIP),
			stringOrEmpty(a.Username),
			a.TriggeredAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(a.Acknowledged),
			strconv.FormatBool(a.Resolved),
		}
		if err := cw.Write(row); err != nil {
			logging.Error().Err(err).Msg("Failed to write CSV export row")
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Error().Err(err).Msg("Failed to flush CSV export")
	}
}

// writeJSONExport writes the alerts as an indented JSON array, not the
// usual envelope, so the download opens directly in analysis tools.
func writeJSONExport(w http.ResponseWriter, alerts []models.Alert) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal alert export")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write alert export")
	}
}

// stringOrEmpty renders an optional column value.
func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
