// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
	"time"

	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/database"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
)

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	AssignedTo  *int64     `json:"assigned_to" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	Status      *string    `json:"status" validate:"omitempty,taskstatus"`
	AssignedTo  *int64     `json:"assigned_to" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline"`
}

// ListProjectTasks returns all tasks of a project. Visibility is decided at
// the project level; within a visible project every task is listed.
//
// GET /api/v1/projects/{id}/tasks
func (h *Handler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	projectID, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}
	project, ok := h.mustProject(w, r, projectID)
	if !ok {
		return
	}

	allowed := authz.CanListProjectTasks(subject.Actor(), authz.ProjectRefOf(project))
	metrics.RecordAuthzDecision("project", "list_tasks", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	tasks, err := h.store.ListTasksByProject(r.Context(), projectID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// CreateTask creates a task under a project. New tasks always start in the
// todo state; assignment may point at any user, related or not.
//
// POST /api/v1/projects/{id}/tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	projectID, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}
	project, ok := h.mustProject(w, r, projectID)
	if !ok {
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionCreateChild, authz.ProjectRefOf(project))
	metrics.RecordAuthzDecision("project", "create_child", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	var req createTaskRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	task, err := h.store.CreateTask(r.Context(), req.Title, req.Description, projectID, req.AssignedTo, req.Deadline)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("task_id", task.ID).Int64("project_id", projectID).Msg("Task created")
	respondSuccess(w, r, http.StatusCreated, task)
}

// GetTask returns a task with its project, assignee, and comments.
//
// GET /api/v1/tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	withProject, err := h.store.GetTaskWithProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionRead, authz.TaskRefOf(&withProject.Task, &withProject.Project))
	metrics.RecordAuthzDecision("task", "read", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	detail, err := h.store.GetTaskDetail(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, detail)
}

// UpdateTask applies a partial update to a task. Status moves freely between
// the three states; there is no enforced workflow order.
//
// PUT /api/v1/tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	withProject, err := h.store.GetTaskWithProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionUpdate, authz.TaskRefOf(&withProject.Task, &withProject.Project))
	metrics.RecordAuthzDecision("task", "update", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	var req updateTaskRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	task, err := h.store.UpdateTask(r.Context(), id, database.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Deadline:    req.Deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, task)
}

// DeleteTask removes a task and its comments.
//
// DELETE /api/v1/tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	id, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	withProject, err := h.store.GetTaskWithProject(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionDelete, authz.TaskRefOf(&withProject.Task, &withProject.Project))
	metrics.RecordAuthzDecision("task", "delete", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("task_id", id).Msg("Task deleted")
	respondSuccess(w, r, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// MyTasks returns every task assigned to the caller across all projects,
// newest first, with parent project and comments attached. Assignment alone
// grants this view; project ownership is not consulted here.
//
// GET /api/v1/tasks/mine
func (h *Handler) MyTasks(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	tasks, err := h.store.ListTasksByAssignee(r.Context(), subject.UserID)
	if err != nil {
		internalError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{"tasks": tasks})
}
