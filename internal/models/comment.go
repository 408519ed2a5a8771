// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package models

import "time"

// Comment represents a note posted on a task.
//
// Every comment belongs to exactly one task and carries its author. Deleting
// a task cascades to its comments.
type Comment struct {
	ID        int64        `json:"id"`
	Text      string       `json:"text"`
	TaskID    int64        `json:"task_id"`
	AuthorID  int64        `json:"author_id"`
	Author    *UserSummary `json:"author,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
