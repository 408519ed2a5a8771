// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package middleware provides cross-cutting HTTP middleware: request ID
// propagation and Prometheus instrumentation. Authentication middleware lives
// in package auth; rate limiting and CORS are configured in package api.
package middleware
