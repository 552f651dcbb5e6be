// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

// Package validation provides struct validation using go-playground/validator
// v10.
//
// It wraps the library in a thread-safe singleton with translated,
// human-readable error messages and an APIError conversion matching the
// HTTP envelope. Beyond the built-in tags (ip, oneof, min, max, datetime)
// it registers two domain tags:
//
//   - severity: one of the alert severities (Critical, High, Medium, Low)
//   - rulename: one of the detection rule names
//
// Usage:
//
//	var req models.NotesRequest
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
package validation
