// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

/*
projects.go - Project Store Operations

Key operations:
  - CreateProject: owner fixed at creation to the creating actor
  - GetProject: single-project load for the two-step mutation guard
  - ListProjectsWithCounts: full listing with task counters; the caller
    filters visibility through the authorization engine
  - UpdateProject: partial field merge (name, description)
  - DeleteProject: transactional cascade to tasks and their comments
*/

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
	"github.com/chantierhq/chantier/internal/models"
)

// projectColumns is the canonical select list for project rows.
const projectColumns = "id, name, description, owner_id, created_at, updated_at"

// scanProjectRow scans a row into a Project, handling the nullable
// description.
func scanProjectRow(scanner interface{ Scan(dest ...interface{}) error }) (*models.Project, error) {
	project := &models.Project{}
	var description sql.NullString
	err := scanner.Scan(
		&project.ID, &project.Name, &description, &project.OwnerID,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		project.Description = &description.String
	}
	return project, nil
}

// CreateProject inserts a project owned by ownerID. Ownership never changes
// afterwards; no update path touches owner_id.
func (db *DB) CreateProject(ctx context.Context, name string, description *string, ownerID int64) (*models.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO projects (name, description, owner_id)
		 VALUES (?, ?, ?)
		 RETURNING `+projectColumns,
		name, description, ownerID,
	)
	project, err := scanProjectRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject retrieves a project by primary key.
func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProjectRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ListProjectsWithCounts returns every project enriched with its task count
// and completed-task count. Visibility filtering is the authorization
// engine's job, not the store's.
func (db *DB) ListProjectsWithCounts(ctx context.Context) ([]models.ProjectWithCounts, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'done') AS completed_task_count
		FROM projects p
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	projects := make([]models.ProjectWithCounts, 0)
	for rows.Next() {
		var p models.ProjectWithCounts
		var description sql.NullString
		err := rows.Scan(
			&p.ID, &p.Name, &description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
			&p.TaskCount, &p.CompletedTaskCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		if description.Valid {
			p.Description = &description.String
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectUpdate carries the optional fields of a partial project update.
// Nil means "retain the prior value".
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// UpdateProject applies a partial merge to a project. Only supplied fields
// change.
func (db *DB) UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*models.Project, error) {
	project, err := db.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	name := project.Name
	if update.Name != nil {
		name = *update.Name
	}
	description := project.Description
	if update.Description != nil {
		description = update.Description
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return db.GetProject(ctx, id)
}

// DeleteProject removes the project, its tasks, and those tasks' comments in
// one transaction. No orphaned task or comment remains queryable afterwards.
func (db *DB) DeleteProject(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete_cascade", "projects", time.Since(start), err) }()

	if _, err := db.GetProject(ctx, id); err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete project comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project deletion: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("project_id", id).Msg("Project deleted with cascade")
	return nil
}
