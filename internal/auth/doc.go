// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package auth implements bearer-token authentication for the API.
//
// Tokens are HS256-signed JWTs carrying the user id, email, and role plus a
// unique JTI. Logout revokes the JTI in a BadgerDB store with a TTL matching
// the token lifetime, so revocation entries expire on their own. A login
// throttle tracks failed attempts per account and temporarily locks accounts
// under brute force.
//
// Authentication answers "who is calling"; entity-level decisions live in
// package authz.
package auth
