// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector matches the revocation store's value-log GC method.
type GarbageCollector interface {
	RunGC() error
}

// ThrottlePruner matches the login throttle's stale-entry pruning method.
type ThrottlePruner interface {
	PruneStale(maxIdle time.Duration) int
}

// MaintenanceService runs periodic housekeeping: garbage collection of the
// token revocation store and pruning of idle login throttle entries.
type MaintenanceService struct {
	gc       GarbageCollector
	throttle ThrottlePruner
	interval time.Duration
	maxIdle  time.Duration
	logger   *zerolog.Logger
	name     string
}

// NewMaintenanceService creates a maintenance service. A non-positive
// interval defaults to 10 minutes, maxIdle to 1 hour.
func NewMaintenanceService(gc GarbageCollector, throttle ThrottlePruner, interval, maxIdle time.Duration, logger *zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if maxIdle <= 0 {
		maxIdle = time.Hour
	}
	return &MaintenanceService{
		gc:       gc,
		throttle: throttle,
		interval: interval,
		maxIdle:  maxIdle,
		logger:   logger,
		name:     "maintenance",
	}
}

// Serve implements suture.Service. Runs one sweep per tick until the context
// is canceled.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *MaintenanceService) sweep() {
	if m.gc != nil {
		if err := m.gc.RunGC(); err != nil {
			m.logger.Warn().Err(err).Msg("revocation store GC failed")
		}
	}
	if m.throttle != nil {
		if pruned := m.throttle.PruneStale(m.maxIdle); pruned > 0 {
			m.logger.Debug().Int("pruned", pruned).Msg("pruned idle login throttle entries")
		}
	}
}

// String implements fmt.Stringer for suture's event log.
func (m *MaintenanceService) String() string {
	return m.name
}
