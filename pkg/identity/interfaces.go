// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"time"

	"github.com/canonical/lead-access-service/internal/types"
)

type ServiceInterface interface {
	ResolveIdentity(ctx context.Context, subject string) (*types.Identity, error)
	ProvisionIdentity(ctx context.Context, scope *types.Scope, req *ProvisionRequest) (*ProvisionResult, error)
	SetIdentityStatus(ctx context.Context, scope *types.Scope, id string, status types.IdentityStatus) error
}

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error)
	UpdateIdentityStatus(ctx context.Context, id string, status types.IdentityStatus) error
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
	ListAssignedRegions(ctx context.Context, identityID string) ([]string, error)
}

type QuotaInterface interface {
	CheckAndReserve(ctx context.Context, scope *types.Scope, resource types.Resource) error
}

// KratosClientInterface is the subset of internal/kratos used by this package.
type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, displayName string) (string, error)
	SetIdentityState(ctx context.Context, id string, active bool) error
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, error)
}
