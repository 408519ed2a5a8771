// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package authz implements the authorization and data-visibility model.
//
// Two layers cooperate:
//
//   - The entity engine (Can, VisibleProjects): pure, stateless decision
//     functions over ownership and assignment fields. Every create, update,
//     and delete in the API is a two-step protocol: load the target and its
//     ownership-relevant ancestor from the store, then ask the engine.
//   - The route enforcer (Enforcer): a Casbin RBAC guard that keeps
//     non-administrators out of the /api/v1/admin route group before any
//     handler runs.
//
// The engine never errors for well-formed input and holds no shared mutable
// state, so it may be called from any number of requests concurrently.
package authz
