// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package models

import "math"

// AdminStats holds the global aggregates for the administration dashboard.
type AdminStats struct {
	TotalProjects        int64   `json:"total_projects"`
	TotalTasks           int64   `json:"total_tasks"`
	CompletedTasks       int64   `json:"completed_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
	TotalUsers           int64   `json:"total_users"`
}

// CompletionPercentage computes (completed / total) * 100 rounded to two
// decimal places. A zero denominator yields exactly 0, never NaN.
func CompletionPercentage(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	return math.Round(pct*100) / 100
}
