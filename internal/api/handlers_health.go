// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
	"time"
)

// HealthLive reports process liveness. It never touches dependencies.
//
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthReady reports readiness to serve traffic: the database must answer a
// ping within the request deadline.
//
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeInternalError, "Database not ready", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
