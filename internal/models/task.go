// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package models

import "time"

// Task status values. Transitions are unconstrained: any status may move to
// any other status.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatuses contains all valid task status values.
var ValidStatuses = []string{StatusTodo, StatusInProgress, StatusDone}

// IsValidStatus checks if a status value is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Task represents a unit of work inside a project.
//
// Every task belongs to exactly one project. Permissions on a task derive
// from the parent project's owner, not from AssignedTo; the assignee holds a
// narrow comment-only right.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ProjectID   int64      `json:"project_id"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithProject bundles a task with its parent project's ownership fields,
// loaded together so the authorization engine can decide from already-loaded
// data.
type TaskWithProject struct {
	Task
	Project Project `json:"project"`
}

// TaskDetail is the eager projection returned by single-task reads and the
// assignee-scoped "my tasks" view: the task, its parent project, and its
// comments with authors.
type TaskDetail struct {
	Task
	Project  Project   `json:"project"`
	Assignee *UserSummary `json:"assignee,omitempty"`
	Comments []Comment `json:"comments"`
}
