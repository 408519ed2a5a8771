// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"

	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
)

type adminUpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Role  *string `json:"role" validate:"omitempty,userrole"`
}

// ListUserSummaries returns the id and name of every user. Any authenticated
// user may call this; it exists so task assignment can offer a picker without
// exposing emails or roles.
//
// GET /api/v1/users
func (h *Handler) ListUserSummaries(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.subject(w, r); !ok {
		return
	}

	users, err := h.store.ListUserSummaries(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"users": users})
}

// AdminListUsers returns every account with its project and task counts.
//
// GET /api/v1/admin/users
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.subject(w, r); !ok {
		return
	}

	users, err := h.store.ListUsersWithCounts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"users": users})
}

// AdminGetUser returns a single account.
//
// GET /api/v1/admin/users/{id}
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.subject(w, r); !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, user)
}

// AdminUpdateUser updates an account's name, email, or role. There is no
// admin user creation: accounts come from self-registration.
//
// PUT /api/v1/admin/users/{id}
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionUpdate, authz.UserRef{ID: user.ID})
	metrics.RecordAuthzDecision("user", "update", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	var req adminUpdateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
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
	role := user.Role
	if req.Role != nil {
		role = *req.Role
	}

	updated, err := h.store.UpdateUser(r.Context(), id, name, email, role)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", id).Str("role", updated.Role).Msg("User updated by administrator")
	respondSuccess(w, r, http.StatusOK, updated)
}

// AdminDeleteUser removes an account. Administrators cannot delete their own
// account; the engine denies self-deletion before any role check.
//
// DELETE /api/v1/admin/users/{id}
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionDelete, authz.UserRef{ID: user.ID})
	metrics.RecordAuthzDecision("user", "delete", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", id).Msg("User deleted by administrator")
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "User deleted"})
}
