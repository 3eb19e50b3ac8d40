// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

// Define private custom types to avoid collisions
type (
	userContextKey     struct{}
	identityContextKey struct{}
)

// WithUserID returns a new context with the given user ID derived from the parent context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey{}, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns an empty string and false if the user ID is not present.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey{}).(string)
	return id, ok
}

// WithIdentity stores the resolved caller, along with its id.
func WithIdentity(ctx context.Context, identity *types.Identity) context.Context {
	ctx = WithUserID(ctx, identity.ID)
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func GetIdentity(ctx context.Context) (*types.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*types.Identity)
	return identity, ok && identity != nil
}
