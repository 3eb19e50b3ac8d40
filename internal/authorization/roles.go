// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import "github.com/canonical/lead-access-service/internal/types"

// Rank orders the role hierarchy, higher is more privileged. Unknown roles
// rank below every known one.
func Rank(role types.Role) int {
	switch role {
	case types.RoleSuperAdmin:
		return 5
	case types.RoleTenantAdmin:
		return 4
	case types.RoleManager:
		return 3
	case types.RoleTerminalManager:
		return 2
	case types.RoleSalesRep:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether role is min or above it.
func AtLeast(role, min types.Role) bool {
	return Rank(role) > 0 && Rank(role) >= Rank(min)
}
