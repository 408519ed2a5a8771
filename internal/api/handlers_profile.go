// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"errors"
	"net/http"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/logging"
)

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=255"`
}

// UpdateProfile lets the caller change their own name and email. Role changes
// go through the administration endpoints only.
//
// PUT /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), subject.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	name := user.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := user.Email
	if req.Email != nil {
		email = *req.Email
	}

	updated, err := h.store.UpdateUserProfile(r.Context(), subject.UserID, name, email)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, updated)
}

// UpdatePassword changes the caller's password after verifying the current
// one. Existing tokens stay valid; only logout revokes them.
//
// PUT /api/v1/profile/password
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req updatePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), subject.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			respondError(w, r, http.StatusUnprocessableEntity, CodeValidationError, "Current password is incorrect", nil)
			return
		}
		internalError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, r, err)
		return
	}

	if err := h.store.UpdateUserPassword(r.Context(), subject.UserID, hash); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", subject.UserID).Msg("Password changed")
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "Password updated"})
}
