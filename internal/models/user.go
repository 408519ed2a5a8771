// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

/*
user.go - User Model and Role Constants

This file defines the User entity and the binary role model. Role is
authoritative: administrators hold unrestricted rights over every entity
(except deleting their own account), standard users hold rights scoped to
ownership or assignment.

Usage:
  - Persistence in internal/database/users.go
  - Decision rules in internal/authz/engine.go
  - Request handling in internal/api/handlers_users.go
*/

package models

import "time"

// Role constants define the two roles in the system.
const (
	// RoleStandard is the default role. Visibility and mutation rights are
	// scoped to owned projects and assigned tasks.
	RoleStandard = "standard"

	// RoleAdministrator grants unrestricted read/write over all entities.
	RoleAdministrator = "administrator"
)

// ValidRoles contains all valid role names for validation.
var ValidRoles = []string{RoleStandard, RoleAdministrator}

// IsValidRole checks if a role name is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account in the system.
//
// PasswordHash is the opaque credential produced by the identity layer; it is
// never serialized into API responses.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdministrator reports whether the user carries the administrator role.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

// UserSummary is the reduced projection exposed to non-administrators for
// assignee pickers: identifier and display name only.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserWithCounts augments a User with aggregate counts for the
// administration listing.
type UserWithCounts struct {
	User
	ProjectCount int64 `json:"project_count"`
	TaskCount    int64 `json:"task_count"`
}
