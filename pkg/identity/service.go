// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package identity resolves authenticated subjects to identities and
// administers them. Identities are never deleted, only status flipped.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/authorization"
	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

const lastSeenTimeout = 2 * time.Second

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	quota   QuotaInterface
	// kratos is nil when no identity provider admin API is configured
	kratos             KratosClientInterface
	invitationLifetime string

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// ResolveIdentity maps the verified token subject onto an active identity
// and loads its assigned regions.
func (s *Service) ResolveIdentity(ctx context.Context, subject string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Service.ResolveIdentity")
	defer span.End()

	identity, err := s.storage.GetIdentityByID(ctx, subject)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Security().AuthnFailure("unknown identity")
		return nil, apierror.New(apierror.IdentityNotFound, "identity not found")
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load identity", err)
	}

	if identity.Status != types.IdentityActive {
		s.logger.Security().AuthnFailure("identity " + string(identity.Status))
		return nil, apierror.Newf(apierror.IdentityInactive, "identity is %s", identity.Status)
	}

	regions, err := s.storage.ListAssignedRegions(ctx, identity.ID)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load assigned regions", err)
	}

	identity.AssignedRegions = regions

	s.touch(ctx, identity.ID)
	s.logger.Security().AuthnSuccess(identity.ID)

	return identity, nil
}

// touch updates last seen outside of the request transaction, a failure is
// only logged.
func (s *Service) touch(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(db.Detach(context.WithoutCancel(ctx)), lastSeenTimeout)
	defer cancel()

	if err := s.storage.TouchLastSeen(ctx, id, s.now()); err != nil {
		s.logger.Warnf("failed to update last seen of %s: %v", id, err)
	}
}

// ProvisionIdentity creates an identity in the tenant of scope. Tenant
// admins may grant roles up to their own, super admins must narrow to a
// tenant first.
func (s *Service) ProvisionIdentity(ctx context.Context, scope *types.Scope, req *ProvisionRequest) (*ProvisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.Service.ProvisionIdentity")
	defer span.End()

	if err := s.requireAdmin(scope); err != nil {
		return nil, err
	}

	if scope.Tenant == nil {
		return nil, apierror.New(apierror.NoTenantAssigned, "a tenant scope is required to provision identities")
	}

	role := types.Role(req.Role)
	if !role.Valid() || role == types.RoleSuperAdmin {
		return nil, apierror.Newf(apierror.InvalidRequest, "role %s cannot be provisioned", req.Role)
	}

	if !scope.IsSuperAdmin && authorization.Rank(role) > authorization.Rank(scope.Identity.Role) {
		s.logger.Security().AuthzFailure(scope.Identity.ID, "grant:"+req.Role)
		return nil, apierror.Newf(apierror.InsufficientRole, "cannot grant role %s", req.Role)
	}

	if req.ManagerID != "" {
		if err := s.checkManager(ctx, scope.Tenant.ID, req.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := s.quota.CheckAndReserve(ctx, scope, types.ResourceUsers); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.storage.GetIdentityByEmail(ctx, email); err == nil {
		return nil, apierror.Newf(apierror.InvalidRequest, "%s is already provisioned", email)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apierror.Wrap(apierror.Internal, "failed to look up identity", err)
	}

	id, err := s.subjectFor(ctx, email, req.DisplayName)
	if err != nil {
		return nil, err
	}

	created, err := s.storage.CreateIdentity(ctx, &types.Identity{
		ID:              id,
		Email:           email,
		DisplayName:     req.DisplayName,
		Role:            role,
		TenantID:        scope.Tenant.ID,
		ManagerID:       req.ManagerID,
		TerminalCode:    req.TerminalCode,
		AssignedRegions: req.AssignedRegions,
		Status:          types.IdentityActive,
	})
	if errors.Is(err, storage.ErrDuplicateKey) {
		return nil, apierror.Newf(apierror.InvalidRequest, "%s is already provisioned", email)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to create identity", err)
	}

	created.AssignedRegions = req.AssignedRegions

	result := &ProvisionResult{Identity: created}

	if s.kratos != nil {
		link, err := s.kratos.CreateRecoveryLink(ctx, id, s.invitationLifetime)
		if err != nil {
			return nil, apierror.Wrap(apierror.Internal, "failed to create invitation link", err)
		}
		result.RecoveryLink = link
	}

	s.logger.Security().AdminAction(scope.Identity.ID, "identity_provision", created.ID)

	return result, nil
}

// subjectFor returns the provider id of email, creating the provider
// identity if needed. Without a provider a local UUIDv7 is used.
func (s *Service) subjectFor(ctx context.Context, email, displayName string) (string, error) {
	if s.kratos == nil {
		id, err := uuid.NewV7()
		if err != nil {
			return "", apierror.Wrap(apierror.Internal, "failed to generate identity id", err)
		}
		return id.String(), nil
	}

	id, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		return "", apierror.Wrap(apierror.Internal, "failed to check identity provider", err)
	}

	if id != "" {
		return id, nil
	}

	s.logger.Infof("creating provider identity for %s", email)

	id, err = s.kratos.CreateIdentity(ctx, email, displayName)
	if err != nil {
		return "", apierror.Wrap(apierror.Internal, "failed to create provider identity", err)
	}

	return id, nil
}

func (s *Service) checkManager(ctx context.Context, tenantID, managerID string) error {
	manager, err := s.storage.GetIdentityByID(ctx, managerID)
	if errors.Is(err, storage.ErrNotFound) {
		return apierror.Newf(apierror.TargetNotFound, "manager %s not found", managerID)
	}

	if err != nil {
		return apierror.Wrap(apierror.Internal, "failed to load manager", err)
	}

	if manager.TenantID != tenantID {
		return apierror.New(apierror.CrossTenantViolation, "manager belongs to another tenant")
	}

	return nil
}

// SetIdentityStatus flips the status of an identity of the caller's tenant.
// Reactivating an inactive identity counts against the users ceiling again.
func (s *Service) SetIdentityStatus(ctx context.Context, scope *types.Scope, id string, status types.IdentityStatus) error {
	ctx, span := s.tracer.Start(ctx, "identity.Service.SetIdentityStatus")
	defer span.End()

	if err := s.requireAdmin(scope); err != nil {
		return err
	}

	if !status.Valid() {
		return apierror.Newf(apierror.InvalidRequest, "unknown status %s", status)
	}

	if id == scope.Identity.ID {
		return apierror.New(apierror.InvalidRequest, "cannot change the status of your own identity")
	}

	target, err := s.storage.GetIdentityByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apierror.Newf(apierror.TargetNotFound, "identity %s not found", id)
	}

	if err != nil {
		return apierror.Wrap(apierror.Internal, "failed to load identity", err)
	}

	if !scope.IsSuperAdmin {
		if target.TenantID != scope.Identity.TenantID {
			s.logger.Security().AuthzFailure(scope.Identity.ID, "identity:"+id)
			return apierror.New(apierror.CrossTenantViolation, "identity belongs to another tenant")
		}

		if authorization.Rank(target.Role) > authorization.Rank(scope.Identity.Role) {
			s.logger.Security().AuthzFailure(scope.Identity.ID, "identity:"+id)
			return apierror.New(apierror.InsufficientRole, "cannot change the status of a higher role")
		}
	}

	if target.Status == status {
		return nil
	}

	if target.Status == types.IdentityInactive {
		if err := s.quota.CheckAndReserve(ctx, scope, types.ResourceUsers); err != nil {
			return err
		}
	}

	if err := s.storage.UpdateIdentityStatus(ctx, id, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apierror.Newf(apierror.TargetNotFound, "identity %s not found", id)
		}
		return apierror.Wrap(apierror.Internal, "failed to update identity status", err)
	}

	s.syncProvider(ctx, id, status)
	s.logger.Security().AdminAction(scope.Identity.ID, "identity_"+string(status), id)

	return nil
}

// pending identities keep their provider state
func (s *Service) syncProvider(ctx context.Context, id string, status types.IdentityStatus) {
	if s.kratos == nil || status == types.IdentityPending {
		return
	}

	if err := s.kratos.SetIdentityState(ctx, id, status == types.IdentityActive); err != nil {
		s.logger.Warnf("failed to sync provider state of %s: %v", id, err)
	}
}

func (s *Service) requireAdmin(scope *types.Scope) error {
	if scope == nil || scope.Identity == nil {
		return apierror.New(apierror.Unauthenticated, "no request scope")
	}

	if !authorization.AtLeast(scope.Identity.Role, types.RoleTenantAdmin) {
		s.logger.Security().AuthzFailure(scope.Identity.ID, "role:"+string(types.RoleTenantAdmin))
		return apierror.Newf(apierror.InsufficientRole, "role %s is required", types.RoleTenantAdmin)
	}

	return nil
}

// WithClock overrides the time source of last seen updates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func NewService(
	storage StorageInterface,
	quota QuotaInterface,
	kratos KratosClientInterface,
	invitationLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.quota = quota
	s.kratos = kratos
	s.invitationLifetime = invitationLifetime
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
