// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type scopeContextKey struct{}

func WithScope(ctx context.Context, scope *types.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, scope)
}

// GetScope returns the scope attached by Middleware.Scope.
func GetScope(ctx context.Context) (*types.Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey{}).(*types.Scope)
	return scope, ok && scope != nil
}
