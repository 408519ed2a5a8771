// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/chantierhq/chantier/internal/auth"
	"github.com/chantierhq/chantier/internal/config"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/models"
)

// Store is the persistence surface the handlers depend on. *database.DB
// implements it; tests substitute a mock.
type Store interface {
	// Users
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, name, email, role string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, name, email string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
	ListUserSummaries(ctx context.Context) ([]models.UserSummary, error)
	ListUsersWithCounts(ctx context.Context) ([]models.UserWithCounts, error)

	// Projects
	CreateProject(ctx context.Context, name string, description *string, ownerID int64) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjectsWithCounts(ctx context.Context) ([]models.ProjectWithCounts, error)
	UpdateProject(ctx context.Context, id int64, update database.ProjectUpdate) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error

	// Tasks
	CreateTask(ctx context.Context, title string, description *string, projectID int64, assignedTo *int64, deadline *time.Time) (*models.Task, error)
	GetTaskWithProject(ctx context.Context, id int64) (*models.TaskWithProject, error)
	GetTaskDetail(ctx context.Context, id int64) (*models.TaskDetail, error)
	ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	ListTasksByAssignee(ctx context.Context, userID int64) ([]models.TaskDetail, error)
	UpdateTask(ctx context.Context, id int64, update database.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Comments
	CreateComment(ctx context.Context, text string, taskID, authorID int64) (*models.Comment, error)

	// Stats
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)

	// Health
	Ping(ctx context.Context) error
}

// Handler contains the dependencies for the API handlers.
type Handler struct {
	store      Store
	config     *config.Config
	jwtManager *auth.JWTManager
	revocation *auth.RevocationStore
	throttle   *auth.LoginThrottle
	startTime  time.Time
}

// NewHandler creates the API handler.
func NewHandler(store Store, cfg *config.Config, jwtManager *auth.JWTManager, revocation *auth.RevocationStore, throttle *auth.LoginThrottle) *Handler {
	return &Handler{
		store:      store,
		config:     cfg,
		jwtManager: jwtManager,
		revocation: revocation,
		throttle:   throttle,
		startTime:  time.Now(),
	}
}

// subject extracts the authenticated subject, responding 401 if absent. A
// missing subject on an authenticated route means the middleware was
// bypassed, which only happens in misconfigured route trees.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (auth.AuthSubject, bool) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, CodeUnauthenticated, "Authentication required", nil)
	}
	return subject, ok
}
