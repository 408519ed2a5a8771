// Chantier - Multi-Tenant Project Management API
// Copyright 2026 Chantier Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chantierhq/chantier

// Package validation provides struct validation using go-playground/validator v10.
// It exposes a thread-safe singleton validator with domain validators registered
// for task statuses and account roles, and translates validator errors into the
// API's VALIDATION_ERROR format.
//
// Example usage:
//
//	type createTaskRequest struct {
//	    Title  string `json:"title" validate:"required,max=255"`
//	    Status string `json:"status" validate:"omitempty,taskstatus"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
