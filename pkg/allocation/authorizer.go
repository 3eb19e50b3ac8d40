// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package allocation decides whether a caller may hand a lead over to
// another identity.
package allocation

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

const allocationResource = "allocation"

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authorize checks that targetID exists before any role rule runs, so a
// denial never reveals anything about an identity that does not exist.
func (a *Authorizer) Authorize(ctx context.Context, scope *types.Scope, targetID string) (*Decision, error) {
	ctx, span := a.tracer.Start(ctx, "allocation.Authorizer.Authorize")
	defer span.End()

	if scope == nil || scope.Identity == nil {
		return nil, apierror.New(apierror.Unauthenticated, "no request scope")
	}

	target, err := a.storage.GetIdentityByID(ctx, targetID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierror.Newf(apierror.TargetNotFound, "identity %s not found", targetID)
	}

	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load target identity", err)
	}

	if err := a.evaluate(scope, target); err != nil {
		a.logger.Security().AuthzFailure(scope.Identity.ID, allocationResource+":"+target.ID)
		return nil, err
	}

	return &Decision{TargetIdentityID: target.ID, TargetTenantID: target.TenantID, Allowed: true}, nil
}

func (a *Authorizer) evaluate(scope *types.Scope, target *types.Identity) error {
	caller := scope.Identity

	if scope.IsSuperAdmin {
		return nil
	}

	tenantID := scope.TenantID()
	if tenantID == "" {
		return apierror.New(apierror.NoTenantAssigned, "no tenant assigned")
	}

	switch caller.Role {
	case types.RoleTenantAdmin:
		if target.TenantID != tenantID {
			return apierror.New(apierror.CrossTenantViolation, "target belongs to another tenant")
		}
		return nil

	case types.RoleManager:
		if target.ManagerID != caller.ID || target.TenantID != tenantID {
			return apierror.New(apierror.OutsideTeam, "target is not a direct report")
		}
		return nil

	// terminal codes are only unique within a tenant
	case types.RoleTerminalManager:
		if caller.TerminalCode == "" || target.TerminalCode != caller.TerminalCode || target.TenantID != tenantID {
			return apierror.New(apierror.OutsideTerminal, "target works at another terminal")
		}
		return nil

	case types.RoleSalesRep:
		return apierror.New(apierror.InsufficientRole, "sales reps cannot reassign leads")

	default:
		a.logger.Errorf("no allocation rule for role %q of %s", caller.Role, caller.ID)
		return apierror.Newf(apierror.InsufficientRole, "role %s cannot reassign leads", caller.Role)
	}
}

func NewAuthorizer(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	a := new(Authorizer)

	a.storage = storage

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
