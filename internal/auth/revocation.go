// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/logging"
)

// revokedKeyPrefix namespaces revocation entries in BadgerDB.
const revokedKeyPrefix = "revoked:"

// revokedEntry is the stored payload for a revoked token.
type revokedEntry struct {
	UserID    int64     `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// RevocationStore records revoked token JTIs in BadgerDB. Entries carry a TTL
// matching the token's remaining lifetime, so the store never outgrows the set
// of tokens that could still be replayed.
type RevocationStore struct {
	db *badger.DB
}

// NewRevocationStore opens a BadgerDB-backed revocation store at path.
func NewRevocationStore(path string) (*RevocationStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open revocation store: %w", err)
	}
	return &RevocationStore{db: db}, nil
}

// NewInMemoryRevocationStore opens an in-memory store. Used by tests and by
// deployments that accept tokens surviving a restart.
func NewInMemoryRevocationStore() (*RevocationStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory revocation store: %w", err)
	}
	return &RevocationStore{db: db}, nil
}

// Revoke records a token JTI as revoked until expiresAt. Revoking an already
// expired token is a no-op.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(revokedEntry{UserID: userID, RevokedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal revocation entry: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(revokedKeyPrefix+jti), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logging.Ctx(ctx).Debug().Str("jti", jti).Int64("user_id", userID).Msg("Token revoked")
	return nil
}

// IsRevoked reports whether a token JTI has been revoked. Expired entries are
// swept by Badger and read as not revoked, which is correct: the token itself
// has also expired by then.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(revokedKeyPrefix + jti))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return true, nil
}

// RunGC runs one value-log garbage collection cycle. Safe to call
// periodically; badger.ErrNoRewrite means there was nothing to collect.
func (s *RevocationStore) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close closes the underlying BadgerDB.
func (s *RevocationStore) Close() error {
	return s.db.Close()
}
