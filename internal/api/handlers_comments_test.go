// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/chantierhq/chantier/internal/models"
)

func TestCreateCommentAuthorization(t *testing.T) {
	f := newTaskFixture(t)

	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{"owner comments", f.owner, http.StatusCreated},
		{"admin comments", f.admin, http.StatusCreated},
		// This is the one right assignment grants.
		{"assignee comments", f.assignee, http.StatusCreated},
		{"stranger cannot comment", f.stranger, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(jsonRequest(t, http.MethodPost, "/api/v1/tasks/"+f.taskID()+"/comments", map[string]string{
				"text": "On my way",
			}), tt.user)
			req = withURLParam(req, "id", f.taskID())
			rec := httptest.NewRecorder()
			f.env.handler.CreateComment(rec, req)
			assertStatus(t, rec, tt.wantStatus)
		})
	}
}

func TestCreateCommentSetsAuthor(t *testing.T) {
	f := newTaskFixture(t)

	req := asUser(jsonRequest(t, http.MethodPost, "/api/v1/tasks/"+f.taskID()+"/comments", map[string]string{
		"text": "Looks good",
	}), f.assignee)
	req = withURLParam(req, "id", f.taskID())
	rec := httptest.NewRecorder()
	f.env.handler.CreateComment(rec, req)
	assertStatus(t, rec, http.StatusCreated)

	var comment models.Comment
	raw, _ := json.Marshal(decodeResponse(t, rec).Data)
	if err := json.Unmarshal(raw, &comment); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	if comment.AuthorID != f.assignee.ID {
		t.Errorf("AuthorID = %d, want %d", comment.AuthorID, f.assignee.ID)
	}
	if comment.Author == nil || comment.Author.Name != "Assignee" {
		t.Errorf("Author summary = %+v, want Assignee", comment.Author)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	f := newTaskFixture(t)

	req := asUser(jsonRequest(t, http.MethodPost, "/api/v1/tasks/"+f.taskID()+"/comments", map[string]string{}), f.owner)
	req = withURLParam(req, "id", f.taskID())
	rec := httptest.NewRecorder()
	f.env.handler.CreateComment(rec, req)

	assertStatus(t, rec, http.StatusUnprocessableEntity)
	assertAPIErrorCode(t, rec, CodeValidationError)
}

func TestCreateCommentTaskNotFound(t *testing.T) {
	f := newTaskFixture(t)

	req := asUser(jsonRequest(t, http.MethodPost, "/api/v1/tasks/999/comments", map[string]string{
		"text": "Into the void",
	}), f.owner)
	req = withURLParam(req, "id", "999")
	rec := httptest.NewRecorder()
	f.env.handler.CreateComment(rec, req)

	assertStatus(t, rec, http.StatusNotFound)
	assertAPIErrorCode(t, rec, CodeNotFound)
}
