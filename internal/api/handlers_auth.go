// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
	"github.com/chantierhq/chantier/internal/models"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authPayload is the response body for register and login.
type authPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new standard account and logs it in.
//
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, r, err)
		return
	}

	// Self-registration always yields a standard account. Promotion to
	// administrator goes through chantierctl or an existing administrator.
	user, err := h.store.CreateUser(r.Context(), req.Name, req.Email, hash, models.RoleStandard)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	token, _, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		internalError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User registered")
	respondSuccess(w, r, http.StatusCreated, authPayload{Token: token, User: user})
}

// Login authenticates by email and password and issues a bearer token.
// Failed attempts feed the per-account throttle; a locked account gets 429
// regardless of whether the password would have been correct.
//
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	if h.throttle.Locked(req.Email) {
		metrics.RecordLoginAttempt("locked_out")
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "Account temporarily locked, try again later", nil)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			h.failLogin(w, r, req.Email)
			return
		}
		internalError(w, r, err)
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			h.failLogin(w, r, req.Email)
			return
		}
		internalError(w, r, err)
		return
	}

	h.throttle.Reset(req.Email)

	token, _, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		internalError(w, r, err)
		return
	}

	metrics.RecordLoginAttempt("success")
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User logged in")
	respondSuccess(w, r, http.StatusOK, authPayload{Token: token, User: user})
}

// failLogin records a failed attempt and responds 401. The response is the
// same for unknown accounts and wrong passwords.
func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	h.throttle.RecordFailure(email)
	metrics.RecordLoginAttempt("invalid_credentials")
	logging.Ctx(r.Context()).Warn().Str("email", sanitizeLogValue(email)).Msg("Failed login attempt")
	respondError(w, r, http.StatusUnauthorized, CodeUnauthenticated, "Invalid credentials", nil)
}

// Logout revokes the presented token. The revocation entry lives exactly as
// long as the token would have.
//
// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	expiresAt := time.Unix(subject.TokenExpiresAt, 0)
	if err := h.revocation.Revoke(r.Context(), subject.TokenID, subject.UserID, expiresAt); err != nil {
		internalError(w, r, err)
		return
	}

	metrics.TokensRevokedTotal.Inc()
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user's account.
//
// GET /api/v1/user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), subject.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, user)
}
