// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/models"
)

func TestRegisterSuccess(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123!",
	})
	rec := httptest.NewRecorder()
	env.handler.Register(rec, req)

	assertStatus(t, rec, http.StatusCreated)
	response := decodeResponse(t, rec)
	if response.Status != "success" {
		t.Errorf("status = %q, want success", response.Status)
	}

	var payload struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	raw, _ := json.Marshal(response.Data)
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Token == "" {
		t.Error("no token in register response")
	}
	if payload.User.Role != models.RoleStandard {
		t.Errorf("new user role = %q, want standard", payload.User.Role)
	}

	// Token must be accepted by the manager.
	if _, err := env.jwt.ValidateToken(payload.Token); err != nil {
		t.Errorf("register token invalid: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing fields", map[string]string{}},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "password123!"}},
		{"short password", map[string]string{"name": "A", "email": "a@b.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.handler.Register(rec, jsonRequest(t, http.MethodPost, "/api/v1/auth/register", tt.body))
			assertStatus(t, rec, http.StatusUnprocessableEntity)
			assertAPIErrorCode(t, rec, CodeValidationError)
		})
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "password123!",
	})
	rec := httptest.NewRecorder()
	env.handler.Register(rec, req)

	assertStatus(t, rec, http.StatusUnprocessableEntity)
	assertAPIErrorCode(t, rec, CodeEmailTaken)
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123!",
	})
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)

	assertStatus(t, rec, http.StatusOK)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	tests := []struct {
		name  string
		email string
	}{
		{"wrong password", "alice@example.com"},
		{"unknown account", "ghost@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"email":    tt.email,
				"password": "wrong password",
			})
			rec := httptest.NewRecorder()
			env.handler.Login(rec, req)

			// Same response either way so account existence is not probeable.
			assertStatus(t, rec, http.StatusUnauthorized)
			assertAPIErrorCode(t, rec, CodeUnauthenticated)
		})
	}
}

func TestLoginLockout(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	badLogin := func() *httptest.ResponseRecorder {
		req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong password",
		})
		rec := httptest.NewRecorder()
		env.handler.Login(rec, req)
		return rec
	}

	// Throttle allows 3 failures, then locks.
	for i := 0; i < 3; i++ {
		assertStatus(t, badLogin(), http.StatusUnauthorized)
	}
	rec := badLogin()
	assertStatus(t, rec, http.StatusTooManyRequests)
	assertAPIErrorCode(t, rec, CodeRateLimited)

	// Even the correct password is rejected while locked.
	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123!",
	})
	rec = httptest.NewRecorder()
	env.handler.Login(rec, req)
	assertStatus(t, rec, http.StatusTooManyRequests)
}

func TestLoginResetsThrottle(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	for i := 0; i < 2; i++ {
		req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong password",
		})
		env.handler.Login(httptest.NewRecorder(), req)
	}

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123!",
	})
	rec := httptest.NewRecorder()
	env.handler.Login(rec, req)
	assertStatus(t, rec, http.StatusOK)

	if env.throttle.Locked("alice@example.com") {
		t.Error("successful login should reset the failure budget")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPost, "/api/v1/auth/logout", nil), user)
	rec := httptest.NewRecorder()
	env.handler.Logout(rec, req)
	assertStatus(t, rec, http.StatusOK)

	revoked, err := env.handler.revocation.IsRevoked(req.Context(), "test-jti")
	if err != nil {
		t.Fatalf("IsRevoked() error: %v", err)
	}
	if !revoked {
		t.Error("logout did not revoke the token JTI")
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/user", nil), user)
	rec := httptest.NewRecorder()
	env.handler.Me(rec, req)

	assertStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); !json.Valid([]byte(got)) {
		t.Fatalf("invalid JSON: %s", got)
	}
	// Password hash must never serialize.
	body := rec.Body.String()
	if strings.Contains(body, "password_hash") || strings.Contains(body, "$2a$") || strings.Contains(body, "$2b$") {
		t.Errorf("response leaks password hash: %s", body)
	}
}
