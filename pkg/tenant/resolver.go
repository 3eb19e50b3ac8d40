// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

var _ ResolverInterface = (*Resolver)(nil)

// Resolver turns an authenticated identity into the organizational scope of
// the request.
type Resolver struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Resolve returns the scope of identity. override narrows a super admin to a
// tenant and is ignored for everybody else, so a forged parameter can never
// widen or move a tenant bound caller.
func (r *Resolver) Resolve(ctx context.Context, identity *types.Identity, override string) (*types.Scope, error) {
	ctx, span := r.tracer.Start(ctx, "tenant.Resolver.Resolve")
	defer span.End()

	if identity == nil {
		return nil, apierror.New(apierror.Unauthenticated, "no authenticated identity")
	}

	if identity.IsSuperAdmin() {
		return r.resolveSuperAdmin(ctx, identity, override)
	}

	if override != "" && override != identity.TenantID {
		r.logger.Debugf("ignoring tenant override %s for %s", override, identity.ID)
	}

	if identity.TenantID == "" {
		return nil, apierror.New(apierror.NoTenantAssigned, "no tenant assigned")
	}

	tenant, err := r.storage.GetTenantByID(ctx, identity.TenantID)
	if errors.Is(err, storage.ErrNotFound) {
		r.logger.Errorf("identity %s references missing tenant %s", identity.ID, identity.TenantID)
		return nil, apierror.New(apierror.NoTenantAssigned, "no tenant assigned")
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load tenant", err)
	}

	if !tenant.IsActive {
		return nil, apierror.New(apierror.TenantInactive, "tenant is inactive")
	}

	return &types.Scope{Identity: identity, Tenant: tenant}, nil
}

func (r *Resolver) resolveSuperAdmin(ctx context.Context, identity *types.Identity, override string) (*types.Scope, error) {
	scope := &types.Scope{Identity: identity, IsSuperAdmin: true}

	if override == "" {
		return scope, nil
	}

	tenant, err := r.storage.GetTenantByID(ctx, override)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierror.Newf(apierror.TenantNotFound, "tenant %s not found", override)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load tenant", err)
	}

	if !tenant.IsActive {
		return nil, apierror.New(apierror.TenantInactive, "tenant is inactive")
	}

	scope.Tenant = tenant
	scope.Impersonating = true

	return scope, nil
}

func NewResolver(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Resolver {
	r := new(Resolver)

	r.storage = storage

	r.tracer = tracer
	r.monitor = monitor
	r.logger = logger

	return r
}
