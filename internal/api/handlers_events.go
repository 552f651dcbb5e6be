// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/samvasq/auspex/internal/database"
	"github.com/samvasq/auspex/internal/models"
)

// SearchEvents handles GET /api/v1/events.
//
// Filters: source_ip, username, event_type, status, start_date,
// end_date, limit (default from config, usually 100), offset. Returns
// matching entries newest first plus the total count for pagination.
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := h.buildEventFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, err.Error(), nil)
		return
	}

	logs, total, err := h.db.SearchLogEntries(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "", &models.EventSearchResult{
		Logs:   logs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// EventDetail handles GET /api/v1/events/{id}.
//
// Returns the full stored entry, 404 when the id is unknown.
func (h *Handler) EventDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Event id must be an integer", nil)
		return
	}

	entry, err := h.db.GetLogEntry(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Event not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "", entry)
}
