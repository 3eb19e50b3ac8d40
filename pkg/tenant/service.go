// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

var _ ServiceInterface = (*Service)(nil)

// Service administers tenants. Tenants are never deleted, only deactivated.
type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) CreateTenant(ctx context.Context, req *CreateTenantRequest) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.CreateTenant")
	defer span.End()

	t := &types.Tenant{
		CompanyName:      strings.TrimSpace(req.CompanyName),
		Domain:           strings.ToLower(strings.TrimSpace(req.Domain)),
		SubscriptionTier: req.SubscriptionTier,
		IsActive:         true,
		MaxUsers:         req.MaxUsers,
		MaxLeadsPerMonth: req.MaxLeadsPerMonth,
		MaxCustomers:     req.MaxCustomers,
	}

	created, err := s.storage.CreateTenant(ctx, t)
	if errors.Is(err, storage.ErrDuplicateKey) {
		return nil, apierror.Newf(apierror.InvalidRequest, "domain %s is already registered", t.Domain)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to create tenant", err)
	}

	s.logger.Security().AdminAction(actor(ctx), "tenant_create", created.ID)

	return created, nil
}

func (s *Service) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.GetTenant")
	defer span.End()

	return s.get(ctx, id)
}

func (s *Service) ListTenants(ctx context.Context, page, size int64) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.ListTenants")
	defer span.End()

	tenants, err := s.storage.ListTenants(ctx, page, size)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to list tenants", err)
	}

	return tenants, nil
}

// UpdateTenant changes the profile and the ceilings of a tenant. Usage
// counters are never touched here.
func (s *Service) UpdateTenant(ctx context.Context, id string, req *UpdateTenantRequest) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.UpdateTenant")
	defer span.End()

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		t.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.SubscriptionTier != nil {
		t.SubscriptionTier = *req.SubscriptionTier
	}
	if req.MaxUsers != nil {
		t.MaxUsers = *req.MaxUsers
	}
	if req.MaxLeadsPerMonth != nil {
		t.MaxLeadsPerMonth = *req.MaxLeadsPerMonth
	}
	if req.MaxCustomers != nil {
		t.MaxCustomers = *req.MaxCustomers
	}

	updated, err := s.storage.UpdateTenant(ctx, t)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierror.Newf(apierror.TenantNotFound, "tenant %s not found", id)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to update tenant", err)
	}

	s.logger.Security().AdminAction(actor(ctx), "tenant_update", id)

	return updated, nil
}

func (s *Service) SetTenantStatus(ctx context.Context, id string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.SetTenantStatus")
	defer span.End()

	err := s.storage.SetTenantStatus(ctx, id, active)
	if errors.Is(err, storage.ErrNotFound) {
		return apierror.Newf(apierror.TenantNotFound, "tenant %s not found", id)
	}

	if err != nil {
		return apierror.Wrap(apierror.Internal, "failed to change tenant status", err)
	}

	action := "tenant_deactivate"
	if active {
		action = "tenant_activate"
	}

	s.logger.Security().AdminAction(actor(ctx), action, id)

	return nil
}

func (s *Service) get(ctx context.Context, id string) (*types.Tenant, error) {
	t, err := s.storage.GetTenantByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierror.Newf(apierror.TenantNotFound, "tenant %s not found", id)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to get tenant", err)
	}

	return t, nil
}

func actor(ctx context.Context) string {
	id, _ := authentication.GetUserID(ctx)
	return id
}

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}
