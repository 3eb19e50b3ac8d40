// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error)
	CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error)
}

type ServiceInterface interface {
	// HandleRegistration records a freshly signed up identity as pending
	HandleRegistration(ctx context.Context, identityID, email, displayName string) error
}
