// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"github.com/canonical/lead-access-service/internal/types"
)

type ProvisionRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	DisplayName     string   `json:"displayName" validate:"max=200"`
	Role            string   `json:"role" validate:"required,oneof=tenant_admin manager terminal_manager sales_rep"`
	ManagerID       string   `json:"managerId"`
	TerminalCode    string   `json:"terminalCode" validate:"required_if=Role terminal_manager,max=32"`
	AssignedRegions []string `json:"assignedRegions" validate:"dive,min=1,max=64"`
}

// ProvisionResult carries the recovery link the new user signs in with, when
// an identity provider is configured.
type ProvisionResult struct {
	Identity     *types.Identity `json:"identity"`
	RecoveryLink string          `json:"recoveryLink,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active inactive"`
}
