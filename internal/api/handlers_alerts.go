// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

// ListAlerts handles GET /api/v1/alerts.
//
// Filters: severity, rule_name, resolved, start_date, end_date, limit,
// offset. Alerts come back newest first; count is the page size, not
// the filtered total.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	filter, err := h.buildAlertFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	alerts, _, err := h.alerts.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "", &models.AlertListResult{
		Alerts: alerts,
		Count:  len(alerts),
	})
}

// AlertDetail handles GET /api/v1/alerts/{alertID}.
//
// Returns the full alert including lifecycle fields and, when the alert
// originated from a stored event, a snippet of that entry.
func (h *Handler) AlertDetail(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertID")

	detail, err := h.alerts.GetDetail(r.Context(), alertID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Alert not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "", detail)
}

// analystFromBody reads the optional analyst name from the request body.
// An absent body yields an empty name; the manager substitutes its
// default. Returns false when a response was already written.
func analystFromBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.AnalystActionRequest
	if r.ContentLength > 0 {
		if !decodeJSONBody(w, r, &req) {
			return "", false
		}
		if apiErr := validateRequest(&req); apiErr != nil {
			respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
			return "", false
		}
	}

	return req.Analyst, true
}

// AcknowledgeAlert handles POST /api/v1/alerts/{alertID}/acknowledge.
//
// Stamps the acknowledgement fields and returns the updated alert.
// Repeat calls refresh the analyst and timestamp.
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertID")

	analyst, ok := analystFromBody(w, r)
	if !ok {
		return
	}

	alert, err := h.alerts.Acknowledge(r.Context(), alertID, analyst)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Alert not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "Alert acknowledged", alert)
}

// ResolveAlert handles POST /api/v1/alerts/{alertID}/resolve.
//
// Marks the alert resolved and returns it. An alert that was never
// acknowledged gets its acknowledgement stamped by the same analyst; an
// earlier acknowledgement is preserved.
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertID")

	analyst, ok := analystFromBody(w, r)
	if !ok {
		return
	}

	alert, err := h.alerts.Resolve(r.Context(), alertID, analyst)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Alert not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "Alert resolved", alert)
}

// UpdateAlertNotes handles PUT /api/v1/alerts/{alertID}/notes.
//
// Replaces the analyst notes on the alert and returns it.
func (h *Handler) UpdateAlertNotes(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertID")

	var req models.NotesRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	alert, err := h.alerts.SetNotes(r.Context(), alertID, req.Notes)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Alert not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "Notes updated", alert)
}
