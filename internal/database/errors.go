// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package database

import "errors"

// Sentinel errors for store lookups. NotFound errors are raised before
// authorization is consulted and must never be downgraded to Forbidden.
var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound is returned when a project record does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task record does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound is returned when a comment record does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrEmailTaken is returned when a create or update would violate the
	// unique email constraint.
	ErrEmailTaken = errors.New("email already in use")
)
