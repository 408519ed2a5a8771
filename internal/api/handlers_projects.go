// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"

	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
	"github.com/chantierhq/chantier/internal/models"
)

type createProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
}

type updateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4096"`
}

// ListProjects returns the projects visible to the caller: all of them for
// administrators, owned ones for standard users. Invisible projects are
// omitted, never an error.
//
// GET /api/v1/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	all, err := h.store.ListProjectsWithCounts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	visible := authz.VisibleProjects(subject.Actor(), all)
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"projects": visible})
}

// CreateProject creates a project owned by the caller.
//
// POST /api/v1/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	project, err := h.store.CreateProject(r.Context(), req.Name, req.Description, subject.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("project_id", project.ID).Int64("owner_id", subject.UserID).Msg("Project created")
	respondSuccess(w, r, http.StatusCreated, project)
}

// GetProject returns a single project with its tasks.
//
// GET /api/v1/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionRead, authz.ProjectRefOf(project))
	metrics.RecordAuthzDecision("project", "read", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	tasks, err := h.store.ListTasksByProject(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"project": project,
		"tasks":   tasks,
	})
}

// UpdateProject applies a partial update to a project. Omitted fields keep
// their prior values.
//
// PUT /api/v1/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionUpdate, authz.ProjectRefOf(project))
	metrics.RecordAuthzDecision("project", "update", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	var req updateProjectRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	updated, err := h.store.UpdateProject(r.Context(), id, database.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, updated)
}

// DeleteProject removes a project with its tasks and their comments.
//
// DELETE /api/v1/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionDelete, authz.ProjectRefOf(project))
	metrics.RecordAuthzDecision("project", "delete", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	if err := h.store.DeleteProject(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("project_id", id).Msg("Project deleted")
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "Project deleted"})
}

// mustProject loads a project for task routes, handling not-found.
func (h *Handler) mustProject(w http.ResponseWriter, r *http.Request, id int64) (*models.Project, bool) {
	project, err := h.store.GetProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return nil, false
	}
	return project, true
}
