// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package auth

import (
	"context"

	"github.com/chantierhq/chantier/internal/authz"
)

// AuthSubject is the authenticated caller attached to the request context by
// the bearer middleware.
type AuthSubject struct {
	UserID int64
	Email  string
	Role   string

	// TokenID is the JTI of the presented token, kept so logout can revoke
	// exactly this token.
	TokenID string

	// TokenExpiresAt bounds the revocation entry's TTL on logout.
	TokenExpiresAt int64
}

// IsAdministrator reports whether the subject holds the administrator role.
func (s AuthSubject) IsAdministrator() bool {
	return s.Role == "administrator"
}

// Actor converts the subject into an authorization actor.
func (s AuthSubject) Actor() authz.Actor {
	return authz.Actor{ID: s.UserID, Role: s.Role}
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject attaches the authenticated subject to a context.
func ContextWithSubject(ctx context.Context, subject AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey, subject)
}

// SubjectFromContext extracts the authenticated subject from a context.
// The second return is false on unauthenticated requests.
func SubjectFromContext(ctx context.Context) (AuthSubject, bool) {
	subject, ok := ctx.Value(subjectContextKey).(AuthSubject)
	return subject, ok
}
