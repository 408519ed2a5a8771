// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package models

import "time"

// Project represents a container of tasks owned by a single user.
//
// OwnerID is fixed at creation to the creating actor and is never reassigned
// through any operation. Deleting a project cascades to its tasks and their
// comments.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectWithCounts augments a Project with task counters for the dashboard
// listing. CompletedTaskCount counts tasks with status done.
type ProjectWithCounts struct {
	Project
	TaskCount          int64 `json:"task_count"`
	CompletedTaskCount int64 `json:"completed_task_count"`
}
