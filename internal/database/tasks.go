// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

/*
tasks.go - Task Store Operations

Key operations:
  - CreateTask: insert under a parent project
  - GetTaskWithProject: task + parent project in one load, so the
    authorization engine can decide from already-loaded ownership data
  - GetTaskDetail: eager projection (project, assignee, comments) applied
    after the authorization decision
  - ListTasksByProject: project-scoped listing (caller authorizes the project)
  - ListTasksByAssignee: the actor-centric "my tasks" view, newest first
  - UpdateTask: partial field merge; status transitions unconstrained
  - DeleteTask: transactional cascade to comments
*/

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chantierhq/chantier/internal/metrics"
	"github.com/chantierhq/chantier/internal/models"
)

// taskColumns is the canonical select list for task rows.
const taskColumns = "id, title, description, status, deadline, project_id, assigned_to, created_at, updated_at"

// scanTaskRow scans a row into a Task, handling nullable fields.
func scanTaskRow(scanner interface{ Scan(dest ...interface{}) error }) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString
	var deadline sql.NullTime
	var assignedTo sql.NullInt64
	err := scanner.Scan(
		&task.ID, &task.Title, &description, &task.Status, &deadline,
		&task.ProjectID, &assignedTo, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	applyNullableTaskFields(task, description, deadline, assignedTo)
	return task, nil
}

// applyNullableTaskFields applies nullable columns to a Task.
func applyNullableTaskFields(task *models.Task, description sql.NullString, deadline sql.NullTime, assignedTo sql.NullInt64) {
	if description.Valid {
		task.Description = &description.String
	}
	if deadline.Valid {
		task.Deadline = &deadline.Time
	}
	if assignedTo.Valid {
		task.AssignedTo = &assignedTo.Int64
	}
}

// CreateTask inserts a task under projectID. The caller has already
// authorized create-child on the parent project.
func (db *DB) CreateTask(ctx context.Context, title string, description *string, projectID int64, assignedTo *int64, deadline *time.Time) (*models.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, status, project_id, assigned_to, deadline)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+taskColumns,
		title, description, models.StatusTodo, projectID, assignedTo, deadline,
	)
	task, err := scanTaskRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task by primary key.
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetTaskWithProject retrieves a task together with its parent project.
// Every task mutation goes through this load first so the authorization
// engine sees the parent project's ownership.
func (db *DB) GetTaskWithProject(ctx context.Context, id int64) (*models.TaskWithProject, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT t.id, t.title, t.description, t.status, t.deadline,
		       t.project_id, t.assigned_to, t.created_at, t.updated_at,
		       p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = ?`, id)

	var out models.TaskWithProject
	var taskDesc, projDesc sql.NullString
	var deadline sql.NullTime
	var assignedTo sql.NullInt64
	err := row.Scan(
		&out.Task.ID, &out.Task.Title, &taskDesc, &out.Task.Status, &deadline,
		&out.Task.ProjectID, &assignedTo, &out.Task.CreatedAt, &out.Task.UpdatedAt,
		&out.Project.ID, &out.Project.Name, &projDesc, &out.Project.OwnerID,
		&out.Project.CreatedAt, &out.Project.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task with project: %w", err)
	}

	applyNullableTaskFields(&out.Task, taskDesc, deadline, assignedTo)
	if projDesc.Valid {
		out.Project.Description = &projDesc.String
	}
	return &out, nil
}

// GetTaskDetail retrieves the eager projection for a single task: parent
// project, assignee summary, and comments with authors. Called only after
// the read decision allowed the task.
func (db *DB) GetTaskDetail(ctx context.Context, id int64) (*models.TaskDetail, error) {
	withProject, err := db.GetTaskWithProject(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.TaskDetail{Task: withProject.Task, Project: withProject.Project}

	if detail.AssignedTo != nil {
		var s models.UserSummary
		err := db.conn.QueryRowContext(ctx,
			`SELECT id, name FROM users WHERE id = ?`, *detail.AssignedTo,
		).Scan(&s.ID, &s.Name)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to load assignee: %w", err)
		}
		if err == nil {
			detail.Assignee = &s
		}
	}

	comments, err := db.ListCommentsByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Comments = comments

	return detail, nil
}

// ListTasksByProject returns every task of the project, newest first. The
// caller has already authorized reading the project; no per-task filtering
// applies within a visible project.
func (db *DB) ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// ListTasksByAssignee returns the actor-centric "my tasks" view: every task
// assigned to the user, with parent project and comments attached, newest
// first. This view deliberately bypasses project ownership.
func (db *DB) ListTasksByAssignee(ctx context.Context, userID int64) ([]models.TaskDetail, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT t.id, t.title, t.description, t.status, t.deadline,
		       t.project_id, t.assigned_to, t.created_at, t.updated_at,
		       p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.assigned_to = ?
		ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	details := make([]models.TaskDetail, 0)
	for rows.Next() {
		var d models.TaskDetail
		var taskDesc, projDesc sql.NullString
		var deadline sql.NullTime
		var assignedTo sql.NullInt64
		err := rows.Scan(
			&d.Task.ID, &d.Task.Title, &taskDesc, &d.Task.Status, &deadline,
			&d.Task.ProjectID, &assignedTo, &d.Task.CreatedAt, &d.Task.UpdatedAt,
			&d.Project.ID, &d.Project.Name, &projDesc, &d.Project.OwnerID,
			&d.Project.CreatedAt, &d.Project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assigned task row: %w", err)
		}
		applyNullableTaskFields(&d.Task, taskDesc, deadline, assignedTo)
		if projDesc.Valid {
			d.Project.Description = &projDesc.String
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach comments after the row scan; DuckDB's driver does not allow
	// interleaved queries on the same connection while rows are open.
	for i := range details {
		comments, err := db.ListCommentsByTask(ctx, details[i].ID)
		if err != nil {
			return nil, err
		}
		details[i].Comments = comments
	}

	return details, nil
}

// TaskUpdate carries the optional fields of a partial task update. Nil means
// "retain the prior value".
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    *time.Time
	AssignedTo  *int64
}

// UpdateTask applies a partial merge to a task. Any status may move to any
// other status; no workflow ordering is enforced.
func (db *DB) UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*models.Task, error) {
	task, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	title := task.Title
	if update.Title != nil {
		title = *update.Title
	}
	description := task.Description
	if update.Description != nil {
		description = update.Description
	}
	status := task.Status
	if update.Status != nil {
		status = *update.Status
	}
	deadline := task.Deadline
	if update.Deadline != nil {
		deadline = update.Deadline
	}
	assignedTo := task.AssignedTo
	if update.AssignedTo != nil {
		assignedTo = update.AssignedTo
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, deadline = ?, assigned_to = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		title, description, status, deadline, assignedTo, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return db.GetTask(ctx, id)
}

// DeleteTask removes the task and its comments in one transaction.
func (db *DB) DeleteTask(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete_cascade", "tasks", time.Since(start), err) }()

	if _, err := db.GetTask(ctx, id); err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return tx.Commit()
}
