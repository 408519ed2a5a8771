// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

/*
users.go - User Store Operations

Key operations:
  - CreateUser: register an account (unique email enforced)
  - GetUserByID / GetUserByEmail: lookups for authentication and handlers
  - UpdateUser: admin update of name, email, role
  - UpdateUserProfile / UpdateUserPassword: self-service profile operations
  - DeleteUser: account removal
  - ListUserSummaries: id+name projection for assignee pickers
  - ListUsersWithCounts: administration listing with aggregate counts
*/

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chantierhq/chantier/internal/models"
)

// userColumns is the canonical select list for user rows.
const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

// scanUserRow scans a row into a User.
func scanUserRow(scanner interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// emailInUse reports whether the email belongs to a user other than excludeID.
// Pass excludeID 0 for creation checks.
func (db *DB) emailInUse(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("email lookup failed: %w", err)
	}
	return count > 0, nil
}

// CreateUser registers a new account. The caller supplies the already-hashed
// credential; plaintext never reaches the store.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error) {
	taken, err := db.emailInUse(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	row := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		 VALUES (?, ?, ?, ?)
		 RETURNING `+userColumns,
		name, email, passwordHash, role,
	)
	user, err := scanUserRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by primary key.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email for credential verification.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// UpdateUser applies the administration update: name, email, and role.
func (db *DB) UpdateUser(ctx context.Context, id int64, name, email, role string) (*models.User, error) {
	taken, err := db.emailInUse(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, email, role, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}
	return db.GetUserByID(ctx, id)
}

// UpdateUserProfile applies the self-service update: name and email only.
// Role is untouchable through this path.
func (db *DB) UpdateUserProfile(ctx context.Context, id int64, name, email string) (*models.User, error) {
	taken, err := db.emailInUse(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, email, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}
	return db.GetUserByID(ctx, id)
}

// UpdateUserPassword replaces the stored credential hash.
func (db *DB) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUserRole sets the role only. Used by the promotion CLI.
func (db *DB) UpdateUserRole(ctx context.Context, id int64, role string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes an account. Projects owned by the user and tasks
// assigned to them are left in place; the administration UI is expected to
// reassign or remove them first.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListUserSummaries returns id and name for every user, ordered by name.
// This is the reduced projection any authenticated user may see for
// assignee pickers.
func (db *DB) ListUserSummaries(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	summaries := make([]models.UserSummary, 0)
	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListUsersWithCounts returns every user together with the number of
// projects they own and tasks assigned to them. Administration listing only;
// the route enforcer and handler both gate it.
func (db *DB) ListUsersWithCounts(ctx context.Context) ([]models.UserWithCounts, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM projects p WHERE p.owner_id = u.id) AS project_count,
		       (SELECT COUNT(*) FROM tasks t WHERE t.assigned_to = u.id) AS task_count
		FROM users u
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with counts: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	users := make([]models.UserWithCounts, 0)
	for rows.Next() {
		var u models.UserWithCounts
		err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.CreatedAt, &u.UpdatedAt, &u.ProjectCount, &u.TaskCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
