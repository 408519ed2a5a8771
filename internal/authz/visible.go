// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

package authz

import "github.com/chantierhq/chantier/internal/models"

// VisibleProjects filters a project collection down to the subset the actor
// may read: administrators see everything, standard users see projects they
// own. Denial of visibility manifests as exclusion from the result, never as
// an error.
func VisibleProjects(actor Actor, projects []models.ProjectWithCounts) []models.ProjectWithCounts {
	if actor.IsAdministrator() {
		return projects
	}
	visible := make([]models.ProjectWithCounts, 0, len(projects))
	for _, p := range projects {
		if p.OwnerID == actor.ID {
			visible = append(visible, p)
		}
	}
	return visible
}

// CanListProjectTasks reports whether the actor may list the tasks of a
// project. Once the project read is authorized, every task of the project is
// visible; no per-task filtering applies.
func CanListProjectTasks(actor Actor, project ProjectRef) bool {
	return Can(actor, ActionRead, project)
}

// CanListUsers reports whether the actor may see the full user listing with
// aggregate counts. Only administrators may.
//
// The assignee-scoped task view ("my tasks") needs no decision here: it is
// actor-centric by construction and bypasses project ownership by design.
func CanListUsers(actor Actor) bool {
	return actor.IsAdministrator()
}
