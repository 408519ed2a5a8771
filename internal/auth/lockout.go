// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/chantierhq/chantier/internal/config"
)

// LoginThrottle locks accounts after repeated failed logins. Each account gets
// a token bucket holding maxAttempts failures; the bucket refills over the
// lockout duration, so a locked account unlocks gradually on its own.
//
// Tracking is keyed by the submitted email, not the resolved user, so attempts
// against unknown accounts are throttled the same way as attempts against real
// ones.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry

	maxAttempts int
	window      time.Duration
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle builds a throttle from the security configuration.
func NewLoginThrottle(cfg *config.SecurityConfig) *LoginThrottle {
	maxAttempts := cfg.LockoutMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	window := cfg.LockoutDuration
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{
		entries:     make(map[string]*throttleEntry),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// entry returns the throttle entry for a subject, creating it on first use.
// Caller holds the mutex.
func (t *LoginThrottle) entry(subject string) *throttleEntry {
	e, ok := t.entries[subject]
	if !ok {
		e = &throttleEntry{
			limiter: rate.NewLimiter(rate.Every(t.window/time.Duration(t.maxAttempts)), t.maxAttempts),
		}
		t.entries[subject] = e
	}
	e.lastSeen = time.Now()
	return e
}

// Locked reports whether the subject has exhausted its failure budget.
func (t *LoginThrottle) Locked(subject string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entry(subject).limiter.Tokens() < 1
}

// RecordFailure consumes one failure from the subject's budget.
func (t *LoginThrottle) RecordFailure(subject string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entry(subject).limiter.Allow()
}

// Reset clears the subject's failure history after a successful login.
func (t *LoginThrottle) Reset(subject string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, subject)
}

// PruneStale drops entries idle longer than maxIdle to bound memory. Called
// periodically by the maintenance service.
func (t *LoginThrottle) PruneStale(maxIdle time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	pruned := 0
	for subject, e := range t.entries {
		if e.lastSeen.Before(cutoff) {
			delete(t.entries, subject)
			pruned++
		}
	}
	return pruned
}
