// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chantierhq/chantier/internal/models"
)

// CreateComment posts a comment on a task and returns it with the author
// summary attached. The caller has already authorized create-child on the
// task (owner, assignee, or administrator).
func (db *DB) CreateComment(ctx context.Context, text string, taskID, authorID int64) (*models.Comment, error) {
	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO comments (text, task_id, author_id)
		 VALUES (?, ?, ?)
		 RETURNING id, text, task_id, author_id, created_at`,
		text, taskID, authorID,
	)

	comment := &models.Comment{}
	err := row.Scan(&comment.ID, &comment.Text, &comment.TaskID, &comment.AuthorID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	var author models.UserSummary
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM users WHERE id = ?`, authorID,
	).Scan(&author.ID, &author.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load comment author: %w", err)
	}
	if err == nil {
		comment.Author = &author
	}

	return comment, nil
}

// ListCommentsByTask returns a task's comments with author summaries,
// oldest first.
func (db *DB) ListCommentsByTask(ctx context.Context, taskID int64) ([]models.Comment, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.text, c.task_id, c.author_id, c.created_at, u.id, u.name
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.task_id = ?
		ORDER BY c.created_at`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		var authorID sql.NullInt64
		var authorName sql.NullString
		err := rows.Scan(&c.ID, &c.Text, &c.TaskID, &c.AuthorID, &c.CreatedAt, &authorID, &authorName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		if authorID.Valid && authorName.Valid {
			c.Author = &models.UserSummary{ID: authorID.Int64, Name: authorName.String}
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountCommentsByTask returns the number of comments on a task. Used by the
// cascade tests and nothing else at present.
func (db *DB) CountCommentsByTask(ctx context.Context, taskID int64) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE task_id = ?`, taskID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
