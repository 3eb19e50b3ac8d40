// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package allocation

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type AuthorizerInterface interface {
	Authorize(ctx context.Context, scope *types.Scope, targetID string) (*Decision, error)
}

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
}
