// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
)

// AdminStats returns the global aggregates for the administration dashboard.
// The completion percentage is 0 when there are no tasks at all.
//
// GET /api/v1/admin/stats
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.subject(w, r); !ok {
		return
	}

	stats, err := h.store.GetAdminStats(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, stats)
}
