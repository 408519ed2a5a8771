// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package metrics registers the Prometheus instrumentation for the API:
// request latency and throughput, authorization decision counts, login
// outcomes, and database query timings. Metrics are served on /metrics.
package metrics
