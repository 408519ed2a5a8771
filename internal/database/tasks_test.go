// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chantierhq/chantier/internal/models"
)

type taskTestData struct {
	owner    *models.User
	assignee *models.User
	project  *models.Project
	task     *models.Task
}

func seedTaskData(t *testing.T, db *DB) taskTestData {
	t.Helper()
	ctx := context.Background()

	owner := seedUser(t, db, "Owner", "owner@example.com", models.RoleStandard)
	assignee := seedUser(t, db, "Assignee", "assignee@example.com", models.RoleStandard)

	project, err := db.CreateProject(ctx, "Worksite", nil, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	task, err := db.CreateTask(ctx, "Pour foundation", nil, project.ID, &assignee.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	return taskTestData{owner: owner, assignee: assignee, project: project, task: task}
}

func TestCreateTaskDefaults(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)

	if data.task.Status != models.StatusTodo {
		t.Errorf("Status = %q, want todo", data.task.Status)
	}
	if data.task.AssignedTo == nil || *data.task.AssignedTo != data.assignee.ID {
		t.Errorf("AssignedTo = %v, want %d", data.task.AssignedTo, data.assignee.ID)
	}
	if data.task.Deadline != nil {
		t.Errorf("Deadline = %v, want nil", data.task.Deadline)
	}
}

func TestGetTaskWithProject(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)

	got, err := db.GetTaskWithProject(context.Background(), data.task.ID)
	if err != nil {
		t.Fatalf("GetTaskWithProject() error: %v", err)
	}
	if got.Project.ID != data.project.ID || got.Project.OwnerID != data.owner.ID {
		t.Errorf("project = %+v", got.Project)
	}

	if _, err := db.GetTaskWithProject(context.Background(), 999); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("missing task error = %v, want ErrTaskNotFound", err)
	}
}

func TestGetTaskDetail(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)
	ctx := context.Background()

	if _, err := db.CreateComment(ctx, "Concrete ordered", data.task.ID, data.assignee.ID); err != nil {
		t.Fatal(err)
	}

	detail, err := db.GetTaskDetail(ctx, data.task.ID)
	if err != nil {
		t.Fatalf("GetTaskDetail() error: %v", err)
	}
	if detail.Assignee == nil || detail.Assignee.Name != "Assignee" {
		t.Errorf("Assignee = %+v", detail.Assignee)
	}
	if len(detail.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(detail.Comments))
	}
	if detail.Comments[0].Author == nil || detail.Comments[0].Author.ID != data.assignee.ID {
		t.Errorf("comment author = %+v", detail.Comments[0].Author)
	}
}

func TestUpdateTaskPartialMerge(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)
	ctx := context.Background()

	status := models.StatusInProgress
	updated, err := db.UpdateTask(ctx, data.task.ID, TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask() error: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("Status = %q", updated.Status)
	}
	// Omitted fields retained.
	if updated.Title != "Pour foundation" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != data.assignee.ID {
		t.Errorf("AssignedTo = %v", updated.AssignedTo)
	}

	// Any status may move to any other status.
	done := models.StatusDone
	todo := models.StatusTodo
	if _, err := db.UpdateTask(ctx, data.task.ID, TaskUpdate{Status: &done}); err != nil {
		t.Fatal(err)
	}
	reverted, err := db.UpdateTask(ctx, data.task.ID, TaskUpdate{Status: &todo})
	if err != nil {
		t.Fatal(err)
	}
	if reverted.Status != models.StatusTodo {
		t.Errorf("Status after revert = %q, want todo", reverted.Status)
	}
}

func TestUpdateTaskDeadline(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)

	deadline := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	updated, err := db.UpdateTask(context.Background(), data.task.ID, TaskUpdate{Deadline: &deadline})
	if err != nil {
		t.Fatalf("UpdateTask() error: %v", err)
	}
	if updated.Deadline == nil || !updated.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", updated.Deadline, deadline)
	}
}

func TestListTasksByProject(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)
	ctx := context.Background()

	if _, err := db.CreateTask(ctx, "Raise walls", nil, data.project.ID, nil, nil); err != nil {
		t.Fatal(err)
	}

	tasks, err := db.ListTasksByProject(ctx, data.project.ID)
	if err != nil {
		t.Fatalf("ListTasksByProject() error: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("got %d tasks, want 2", len(tasks))
	}
}

func TestListTasksByAssignee(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)
	ctx := context.Background()

	// A second task assigned to someone else stays out of the view.
	if _, err := db.CreateTask(ctx, "Raise walls", nil, data.project.ID, &data.owner.ID, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateComment(ctx, "Concrete ordered", data.task.ID, data.owner.ID); err != nil {
		t.Fatal(err)
	}

	details, err := db.ListTasksByAssignee(ctx, data.assignee.ID)
	if err != nil {
		t.Fatalf("ListTasksByAssignee() error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d tasks, want 1", len(details))
	}
	if details[0].Project.ID != data.project.ID {
		t.Errorf("parent project = %+v", details[0].Project)
	}
	if len(details[0].Comments) != 1 {
		t.Errorf("got %d comments, want 1", len(details[0].Comments))
	}

	none, err := db.ListTasksByAssignee(ctx, 999)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unknown assignee got %d tasks, want 0", len(none))
	}
}

func TestDeleteTaskCascadesComments(t *testing.T) {
	db := newTestDB(t)
	data := seedTaskData(t, db)
	ctx := context.Background()

	if _, err := db.CreateComment(ctx, "Doomed", data.task.ID, data.owner.ID); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteTask(ctx, data.task.ID); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}
	if _, err := db.GetTask(ctx, data.task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("task still readable: %v", err)
	}
	comments, err := db.ListCommentsByTask(ctx, data.task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 0 {
		t.Errorf("%d comments survived task delete", len(comments))
	}
}
