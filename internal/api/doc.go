// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package api provides the HTTP surface of Chantier using the Chi router.
//
// Handlers follow one shape: decode and validate the request, load the
// entities the decision needs, ask the authorization engine, then act. The
// store raises not-found before any permission check runs, so a missing
// resource is always 404 and never leaks into a 403.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, Store interface, constructor
//   - handlers_auth.go: register, login, logout, current user
//   - handlers_projects.go: project CRUD
//   - handlers_tasks.go: task CRUD and the "my tasks" view
//   - handlers_comments.go: comment creation
//   - handlers_users.go: user directory and administration endpoints
//   - handlers_profile.go: profile and password updates
//   - handlers_stats.go: administration dashboard aggregates
//   - handlers_health.go: liveness and readiness probes
package api
