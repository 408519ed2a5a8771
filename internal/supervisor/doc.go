// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package supervisor provides Suture-based process supervision for Chantier.
//
// The tree has two layers: a maintenance layer for background housekeeping
// (revocation store garbage collection, login throttle pruning) and an api
// layer for the HTTP server. A crash in one layer restarts only that layer's
// services.
package supervisor
