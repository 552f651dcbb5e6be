// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/samvasq/auspex/internal/logging"
	"github.com/samvasq/auspex/internal/models"
)

// maxUploadBytes caps multipart log file uploads. Larger archives should
// be split or streamed through the bulk endpoint.
const maxUploadBytes = 50 << 20 // 50MB

// BulkLogRequest carries a batch of structured submissions.
type BulkLogRequest struct {
	Logs []models.LogSubmission `json:"logs" validate:"required,min=1,max=10000,dive"`
}

// SubmitLog handles POST /api/v1/logs.
//
// Ingests one structured log entry. The entry is persisted, run through
// the detection rules, and any generated alerts are committed in the
// same transaction. Responds 201 with the stored entry's id.
func (h *Handler) SubmitLog(w http.ResponseWriter, r *http.Request) {
	var sub models.LogSubmission
	if !decodeJSONBody(w, r, &sub) {
		return
	}
	if apiErr := validateRequest(&sub); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := h.ingester.IngestSingle(r.Context(), sub)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusCreated, "Log ingested successfully", result)
}

// SubmitLogsBulk handles POST /api/v1/logs/bulk.
//
// Ingests a batch of structured entries in one transaction. A storage
// failure rolls back the whole batch.
func (h *Handler) SubmitLogsBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkLogRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := h.ingester.IngestBulk(r.Context(), req.Logs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, fmt.Sprintf("%d logs ingested successfully", result.Ingested), result)
}

// UploadLogFile handles POST /api/v1/logs/upload.
//
// Accepts a multipart upload in the "file" field, stages it under a
// temporary directory keeping the client's basename, and runs the file
// ingestion flow. Unparseable lines are skipped, not errors.
func (h *Handler) UploadLogFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "Failed to parse upload: "+err.Error(), err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "No log file provided", err)
		return
	}
	defer file.Close() //nolint:errcheck // best-effort cleanup

	// Base strips any path the client sent along with the name.
	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload.log"
	}

	tmpDir, err := os.MkdirTemp("", "auspex-upload-")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to stage upload", err)
		return
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logging.Warn().Err(err).Str("dir", tmpDir).Msg("Failed to remove upload staging dir")
		}
	}()

	path := filepath.Join(tmpDir, name)
	if err := writeUpload(path, file); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to stage upload", err)
		return
	}

	result, err := h.ingester.IngestFile(r.Context(), path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, err.Error(), err)
		return
	}

	respondSuccess(w, http.StatusOK, "File uploaded and processed successfully", result)
}

// writeUpload copies the multipart part to path.
func writeUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write staging file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("close staging file: %w", err)
	}
	return nil
}
