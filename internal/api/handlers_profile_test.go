// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/models"
)

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPut, "/api/v1/profile", map[string]string{
		"name": "Alice Cooper",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UpdateProfile(rec, req)
	assertStatus(t, rec, http.StatusOK)

	var updated models.User
	raw, _ := json.Marshal(decodeResponse(t, rec).Data)
	if err := json.Unmarshal(raw, &updated); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if updated.Name != "Alice Cooper" {
		t.Errorf("name = %q, want Alice Cooper", updated.Name)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("email changed unexpectedly: %q", updated.Email)
	}
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)
	env.seedUser(t, "Bob", "bob@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPut, "/api/v1/profile", map[string]string{
		"email": "bob@example.com",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UpdateProfile(rec, req)

	assertStatus(t, rec, http.StatusUnprocessableEntity)
	assertAPIErrorCode(t, rec, CodeEmailTaken)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPut, "/api/v1/profile/password", map[string]string{
		"current_password": "password123!",
		"password":         "a brand new passphrase",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UpdatePassword(rec, req)
	assertStatus(t, rec, http.StatusOK)

	stored, err := env.store.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := auth.VerifyPassword(stored.PasswordHash, "a brand new passphrase"); err != nil {
		t.Errorf("new password not stored: %v", err)
	}
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPut, "/api/v1/profile/password", map[string]string{
		"current_password": "not my password",
		"password":         "a brand new passphrase",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UpdatePassword(rec, req)

	assertStatus(t, rec, http.StatusUnprocessableEntity)
	assertAPIErrorCode(t, rec, CodeValidationError)

	// Password unchanged.
	stored, _ := env.store.GetUserByID(context.Background(), user.ID)
	if err := auth.VerifyPassword(stored.PasswordHash, "password123!"); err != nil {
		t.Errorf("original password no longer verifies: %v", err)
	}
}

func TestUpdatePasswordTooShort(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := asUser(jsonRequest(t, http.MethodPut, "/api/v1/profile/password", map[string]string{
		"current_password": "password123!",
		"password":         "short",
	}), user)
	rec := httptest.NewRecorder()
	env.handler.UpdatePassword(rec, req)

	assertStatus(t, rec, http.StatusUnprocessableEntity)
	assertAPIErrorCode(t, rec, CodeValidationError)
}
