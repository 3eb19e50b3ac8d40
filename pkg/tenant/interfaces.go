// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type ResolverInterface interface {
	Resolve(ctx context.Context, identity *types.Identity, override string) (*types.Scope, error)
}

type ServiceInterface interface {
	CreateTenant(ctx context.Context, req *CreateTenantRequest) (*types.Tenant, error)
	GetTenant(ctx context.Context, id string) (*types.Tenant, error)
	ListTenants(ctx context.Context, page, size int64) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, id string, req *UpdateTenantRequest) (*types.Tenant, error)
	SetTenantStatus(ctx context.Context, id string, active bool) error
}

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	ListTenants(ctx context.Context, page, size int64) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	SetTenantStatus(ctx context.Context, id string, active bool) error
}
