// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"errors"
	"net/http"

	"github.com/chantierhq/chantier/internal/database"
)

// API error codes. Stable strings clients can branch on.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// respondStoreError maps store errors to API responses. Not-found errors are
// 404s; everything else is an opaque 500 with the detail kept in the logs.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "User not found", nil)
	case errors.Is(err, database.ErrProjectNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Project not found", nil)
	case errors.Is(err, database.ErrTaskNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Task not found", nil)
	case errors.Is(err, database.ErrCommentNotFound):
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Comment not found", nil)
	case errors.Is(err, database.ErrEmailTaken):
		respondError(w, r, http.StatusUnprocessableEntity, CodeEmailTaken, "Email address is already in use", nil)
	default:
		internalError(w, r, err)
	}
}
