// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/models"
)

// Middleware authenticates requests from bearer tokens and attaches the
// resulting AuthSubject to the request context.
type Middleware struct {
	jwtManager *JWTManager
	revocation *RevocationStore
}

// NewMiddleware builds the bearer-token middleware.
func NewMiddleware(jwtManager *JWTManager, revocation *RevocationStore) *Middleware {
	return &Middleware{jwtManager: jwtManager, revocation: revocation}
}

// Authenticate rejects requests without a valid, unrevoked bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthenticated(w, r, "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				unauthenticated(w, r, "Token expired")
				return
			}
			unauthenticated(w, r, "Invalid token")
			return
		}

		revoked, err := m.revocation.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Revocation check failed")
			unauthenticated(w, r, "Authentication required")
			return
		}
		if revoked {
			unauthenticated(w, r, "Token revoked")
			return
		}

		subject := AuthSubject{
			UserID:         claims.UserID,
			Email:          claims.Email,
			Role:           claims.Role,
			TokenID:        claims.ID,
			TokenExpiresAt: claims.ExpiresAt.Unix(),
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// unauthenticated writes the standard 401 envelope.
func unauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="chantier"`)
	w.WriteHeader(http.StatusUnauthorized)

	response := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    "UNAUTHENTICATED",
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode 401 response")
	}
}
