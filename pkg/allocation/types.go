// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package allocation

type AuthorizeRequest struct {
	ResourceID       string `json:"resourceId" validate:"required,max=64"`
	TargetIdentityID string `json:"targetIdentityId" validate:"required,max=64"`
}

// Decision is the permit returned to the business data layer. Denials are
// reported as errors, never as a Decision with Allowed false.
type Decision struct {
	ResourceID       string `json:"resourceId"`
	TargetIdentityID string `json:"targetIdentityId"`
	TargetTenantID   string `json:"targetTenantId,omitempty"`
	Allowed          bool   `json:"allowed"`
}
