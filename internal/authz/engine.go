// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

/*
engine.go - Entity Authorization Engine

This file implements the decision core: a pure, stateless rule table that
answers, for a resolved actor and an entity/action pair, allow or deny.

Rules (first match wins):
 1. User self-delete is denied for every actor, including administrators.
 2. Administrators are allowed every remaining action on every entity.
 3. Project: any action requires actor == project owner.
 4. Task: any action requires actor == parent project owner, except
    create-child (posting a comment), which the task assignee may also do.
 5. User: a non-administrator may act only on their own record.
 6. Everything else is denied.

Task permissions derive from the parent project's ownership, never from the
task's own assignee field. The assignee may comment on the task and see it in
the assignee-scoped listing, but may not read, update, or delete it through
the project-scoped operations.

The engine consults only the fields supplied in the entity references; callers
load entities (and their ownership-relevant ancestors) from the store first,
so a dangling reference surfaces as NotFound before authorization is ever
consulted.
*/

package authz

import "github.com/chantierhq/chantier/internal/models"

// Action enumerates the operations the engine decides on.
type Action int

const (
	// ActionRead covers single-entity reads and project-scoped task listings.
	ActionRead Action = iota

	// ActionUpdate covers partial-merge mutations of an existing entity.
	ActionUpdate

	// ActionDelete covers entity removal, including its cascades.
	ActionDelete

	// ActionCreateChild covers creating a child entity under the target:
	// a task under a project, or a comment under a task.
	ActionCreateChild
)

// String returns the action name for logging and metrics.
func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionCreateChild:
		return "create_child"
	default:
		return "unknown"
	}
}

// Actor is the authenticated user a decision is made for. Role is trusted as
// ground truth within a single request; the token issuer resolved it.
type Actor struct {
	ID   int64
	Role string
}

// IsAdministrator reports whether the actor carries the administrator role.
func (a Actor) IsAdministrator() bool {
	return a.Role == models.RoleAdministrator
}

// Entity is the closed set of reference types the engine decides on. The
// sealed marker method keeps the rule table an exhaustive type switch instead
// of a name-indexed callback registry.
type Entity interface {
	entityRef()
}

// ProjectRef carries the ownership fields of a project.
type ProjectRef struct {
	ID      int64
	OwnerID int64
}

// TaskRef carries a task's ownership-relevant ancestry: the parent project's
// owner and the optional assignee.
type TaskRef struct {
	ID             int64
	ProjectID      int64
	ProjectOwnerID int64
	AssignedTo     *int64
}

// UserRef identifies a user record as a managed entity.
type UserRef struct {
	ID int64
}

func (ProjectRef) entityRef() {}
func (TaskRef) entityRef()    {}
func (UserRef) entityRef()    {}

// ProjectRefOf builds a ProjectRef from a project model.
func ProjectRefOf(p *models.Project) ProjectRef {
	return ProjectRef{ID: p.ID, OwnerID: p.OwnerID}
}

// TaskRefOf builds a TaskRef from a task and its already-loaded parent
// project.
func TaskRefOf(t *models.Task, p *models.Project) TaskRef {
	return TaskRef{
		ID:             t.ID,
		ProjectID:      p.ID,
		ProjectOwnerID: p.OwnerID,
		AssignedTo:     t.AssignedTo,
	}
}

// Can decides whether the actor may perform the action on the entity.
//
// The function is pure and thread-safe: it never blocks, never errors, and
// consults only the actor's role and the ownership/assignment fields carried
// by the entity reference.
func Can(actor Actor, action Action, entity Entity) bool {
	switch e := entity.(type) {
	case UserRef:
		// Self-deletion is denied before the administrator blanket allow;
		// this is the one case where an administrator is blocked. Standard
		// users cannot reach the delete operation at all, so the early deny
		// costs them nothing.
		if action == ActionDelete && actor.ID == e.ID {
			return false
		}
		if actor.IsAdministrator() {
			return true
		}
		return actor.ID == e.ID

	case ProjectRef:
		if actor.IsAdministrator() {
			return true
		}
		return actor.ID == e.OwnerID

	case TaskRef:
		if actor.IsAdministrator() {
			return true
		}
		if actor.ID == e.ProjectOwnerID {
			return true
		}
		// The assignee holds exactly one right on the task: posting a
		// comment under it.
		if action == ActionCreateChild && e.AssignedTo != nil && *e.AssignedTo == actor.ID {
			return true
		}
		return false
	}

	return false
}
