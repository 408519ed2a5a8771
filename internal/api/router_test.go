// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/models"
)

// newTestRouter builds the full route tree with real JWT middleware and the
// route-level policy enforcer.
func newTestRouter(t *testing.T) (*testEnv, http.Handler) {
	t.Helper()
	env := newTestEnv(t)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error: %v", err)
	}

	// The middleware shares the handler's revocation store so logout is
	// visible to subsequent requests.
	router := NewRouter(
		env.handler,
		NewChiMiddleware(DefaultChiMiddlewareConfig()),
		auth.NewMiddleware(env.jwt, env.handler.revocation),
		enforcer,
	)
	return env, router.Setup()
}

func (e *testEnv) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := e.jwt.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	return token
}

func TestRouterRequiresAuthentication(t *testing.T) {
	_, handler := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/user"},
		{http.MethodGet, "/api/v1/projects"},
		{http.MethodGet, "/api/v1/tasks/mine"},
		{http.MethodGet, "/api/v1/admin/stats"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRouterAdminGate(t *testing.T) {
	env, handler := newTestRouter(t)
	standard := env.seedUser(t, "Standard", "standard@example.com", models.RoleStandard)
	admin := env.seedUser(t, "Admin", "admin@example.com", models.RoleAdministrator)

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"standard user blocked at route level", standard, http.StatusForbidden},
		{"admin passes the gate", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
			req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, tt.user))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouterTasksMineNotShadowedByID(t *testing.T) {
	env, handler := newTestRouter(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/mine", nil)
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Must hit the literal route, not be parsed as a task id.
	if rec.Code != http.StatusOK {
		t.Errorf("GET /tasks/mine = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterHealthIsPublic(t *testing.T) {
	_, handler := newTestRouter(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	_, handler := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}

func TestRouterLogoutEndToEnd(t *testing.T) {
	env, handler := newTestRouter(t)
	user := env.seedUser(t, "Alice", "alice@example.com", models.RoleStandard)
	token := env.tokenFor(t, user)

	logout := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, logout)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	// The same token is now rejected.
	me := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	me.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, me)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("request after logout = %d, want 401", rec.Code)
	}
}
