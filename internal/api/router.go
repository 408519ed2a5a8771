// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/middleware"
)

// Router wires handlers, middleware, and the route-level enforcer together.
type Router struct {
	handler  *Handler
	chiMW    *ChiMiddleware
	authMW   *auth.Middleware
	enforcer *authz.Enforcer
}

// NewRouter creates the router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authMW *auth.Middleware, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:  handler,
		chiMW:    chiMW,
		authMW:   authMW,
		enforcer: enforcer,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())

	// Prometheus scrape endpoint. Not part of the versioned API.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Health probes: permissive rate limiting for monitors.
		r.Route("/health", func(r chi.Router) {
			r.Use(router.chiMW.RateLimitHealth())
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		// Authentication endpoints. Login carries the strictest limiter;
		// logout is the only one that needs a valid token.
		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMW.RateLimit())
			r.Use(middleware.PrometheusMetrics)
			r.Post("/register", router.handler.Register)
			r.With(router.chiMW.RateLimitLogin()).Post("/login", router.handler.Login)
			r.With(router.authMW.Authenticate).Post("/logout", router.handler.Logout)
		})

		// Authenticated API.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMW.RateLimit())
			r.Use(middleware.PrometheusMetrics)
			r.Use(router.authMW.Authenticate)

			r.Get("/user", router.handler.Me)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", router.handler.ListProjects)
				r.Post("/", router.handler.CreateProject)
				r.Get("/{id}", router.handler.GetProject)
				r.Put("/{id}", router.handler.UpdateProject)
				r.Delete("/{id}", router.handler.DeleteProject)
				r.Get("/{id}/tasks", router.handler.ListProjectTasks)
				r.Post("/{id}/tasks", router.handler.CreateTask)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/mine", router.handler.MyTasks)
				r.Get("/{id}", router.handler.GetTask)
				r.Put("/{id}", router.handler.UpdateTask)
				r.Delete("/{id}", router.handler.DeleteTask)
				r.Post("/{id}/comments", router.handler.CreateComment)
			})

			r.Get("/users", router.handler.ListUserSummaries)

			r.Put("/profile", router.handler.UpdateProfile)
			r.Put("/profile/password", router.handler.UpdatePassword)

			// Administration: gated at the route level by the policy
			// enforcer, on top of the per-entity decisions inside the
			// handlers.
			r.Route("/admin", func(r chi.Router) {
				r.Use(router.requireAdminRoute)
				r.Get("/users", router.handler.AdminListUsers)
				r.Get("/users/{id}", router.handler.AdminGetUser)
				r.Put("/users/{id}", router.handler.AdminUpdateUser)
				r.Delete("/users/{id}", router.handler.AdminDeleteUser)
				r.Get("/stats", router.handler.AdminStats)
			})
		})
	})

	return r
}

// requireAdminRoute enforces the route policy for /api/v1/admin/*.
func (router *Router) requireAdminRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			respondError(w, r, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required", nil)
			return
		}

		allowed, err := router.enforcer.Enforce(subject.Role, r.URL.Path, r.Method)
		if err != nil {
			internalError(w, r, err)
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Int64("user_id", subject.UserID).
				Str("path", sanitizeLogValue(r.URL.Path)).
				Msg("Admin route denied")
			forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
