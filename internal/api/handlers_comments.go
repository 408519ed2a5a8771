// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"

	"github.com/chantierhq/chantier/internal/authz"
	"github.com/chantierhq/chantier/internal/logging"
	"github.com/chantierhq/chantier/internal/metrics"
)

type createCommentRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}

// CreateComment posts a comment on a task. Allowed for administrators, the
// project owner, and the task's assignee. Assignment grants exactly this and
// nothing more.
//
// POST /api/v1/tasks/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}
	taskID, ok := urlParamID(w, r, "id")
	if !ok {
		return
	}

	withProject, err := h.store.GetTaskWithProject(r.Context(), taskID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	allowed := authz.Can(subject.Actor(), authz.ActionCreateChild, authz.TaskRefOf(&withProject.Task, &withProject.Project))
	metrics.RecordAuthzDecision("task", "create_child", allowed)
	if !allowed {
		forbidden(w, r)
		return
	}

	var req createCommentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !validateRequest(w, r, &req) {
		return
	}

	comment, err := h.store.CreateComment(r.Context(), req.Text, taskID, subject.UserID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("comment_id", comment.ID).Int64("task_id", taskID).Msg("Comment created")
	respondSuccess(w, r, http.StatusCreated, comment)
}
