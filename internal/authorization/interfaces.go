// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"net/http"

	"github.com/canonical/lead-access-service/internal/types"
)

type AuthorizerInterface interface {
	// Check fails with InsufficientRole unless identity holds at least min
	Check(ctx context.Context, identity *types.Identity, min types.Role) error
	RequireRole(min types.Role) func(http.Handler) http.Handler
}

// IdentityFunc extracts the authenticated caller from a request context.
type IdentityFunc func(context.Context) (*types.Identity, bool)
