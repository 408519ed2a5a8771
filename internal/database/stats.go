// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/chantierhq/chantier/internal/metrics"
	"github.com/chantierhq/chantier/internal/models"
)

// GetAdminStats computes the global aggregates for the administration
// dashboard in one round trip.
func (db *DB) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	start := time.Now()
	stats := &models.AdminStats{}
	err := db.conn.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM projects),
		       (SELECT COUNT(*) FROM tasks),
		       (SELECT COUNT(*) FROM tasks WHERE status = 'done'),
		       (SELECT COUNT(*) FROM users)`,
	).Scan(&stats.TotalProjects, &stats.TotalTasks, &stats.CompletedTasks, &stats.TotalUsers)
	metrics.RecordDBQuery("aggregate", "stats", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats.CompletionPercentage = models.CompletionPercentage(stats.CompletedTasks, stats.TotalTasks)
	return stats, nil
}
