// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package visibility builds the row level read predicate of a caller.
//
// One builder serves leads and customers; only the owner column differs.
// Roles are matched exhaustively, and a role without a rule falls back to
// the strictest filter and is reported.
package visibility

import (
	"context"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

var _ EngineInterface = (*Engine)(nil)

var ownerFields = map[types.Resource]string{
	types.ResourceLeads:     "assigned_to",
	types.ResourceCustomers: "account_manager_id",
}

type Engine struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// OwnerField returns the column holding the owning identity of resource.
func OwnerField(resource types.Resource) (string, bool) {
	f, ok := ownerFields[resource]
	return f, ok
}

// Build returns the visibility filter of the caller in scope for resource.
func (e *Engine) Build(ctx context.Context, scope *types.Scope, resource types.Resource) (*Filter, error) {
	ctx, span := e.tracer.Start(ctx, "visibility.Engine.Build")
	defer span.End()

	owner, ok := OwnerField(resource)
	if !ok {
		return nil, apierror.Newf(apierror.InvalidRequest, "resource %s has no visibility rules", resource)
	}

	if scope == nil || scope.Identity == nil {
		return nil, apierror.New(apierror.Unauthenticated, "no request scope")
	}

	caller := scope.Identity

	if scope.IsSuperAdmin {
		if scope.Tenant == nil {
			return &Filter{Kind: KindUnrestricted}, nil
		}
		return tenantFilter(scope.Tenant.ID), nil
	}

	if scope.Tenant == nil {
		return nil, apierror.New(apierror.NoTenantAssigned, "no tenant assigned")
	}

	tenantID := scope.Tenant.ID

	switch caller.Role {
	case types.RoleTenantAdmin:
		return tenantFilter(tenantID), nil

	case types.RoleManager:
		return e.teamFilter(ctx, tenantID, caller.ID, owner)

	case types.RoleTerminalManager:
		return e.regionFilter(ctx, tenantID, caller, owner)

	case types.RoleSalesRep:
		return selfFilter(tenantID, caller.ID, owner), nil

	// a super_admin role without the scope flag is inconsistent, treat it
	// like any role without a rule
	default:
		e.logger.Errorf("no visibility rule for role %q of %s, restricting to own records", caller.Role, caller.ID)
		return selfFilter(tenantID, caller.ID, owner), nil
	}
}

func tenantFilter(tenantID string) *Filter {
	return &Filter{Kind: KindTenant, Field: tenantField, Values: []string{tenantID}, TenantID: tenantID}
}

func selfFilter(tenantID, callerID, owner string) *Filter {
	return &Filter{Kind: KindSelf, Field: owner, Values: []string{callerID}, TenantID: tenantID}
}

// teamFilter covers the manager and their direct reports, one level deep.
// The manager is always first, so a manager without reports still sees
// their own records.
func (e *Engine) teamFilter(ctx context.Context, tenantID, managerID, owner string) (*Filter, error) {
	reports, err := e.storage.ListDirectReportIDs(ctx, tenantID, managerID)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load direct reports", err)
	}

	ids := make([]string, 0, len(reports)+1)
	ids = append(ids, managerID)

	seen := map[string]bool{managerID: true}
	for _, id := range reports {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return &Filter{Kind: KindTeam, Field: owner, Values: ids, TenantID: tenantID}, nil
}

// regionFilter matches the postal prefixes bound to the terminal of the
// caller. Without a terminal or prefixes it narrows to the caller's own
// records, never to nothing or everything.
func (e *Engine) regionFilter(ctx context.Context, tenantID string, caller *types.Identity, owner string) (*Filter, error) {
	if caller.TerminalCode == "" {
		return selfFilter(tenantID, caller.ID, owner), nil
	}

	prefixes, err := e.storage.ListTerminalPostalPrefixes(ctx, tenantID, caller.TerminalCode)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load terminal postal codes", err)
	}

	if len(prefixes) == 0 {
		e.logger.Debugf("terminal %s has no postal codes, %s restricted to own records", caller.TerminalCode, caller.ID)
		return selfFilter(tenantID, caller.ID, owner), nil
	}

	return &Filter{Kind: KindRegion, Field: postalField, Values: prefixes, TenantID: tenantID}, nil
}

func NewEngine(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Engine {
	e := new(Engine)

	e.storage = storage

	e.tracer = tracer
	e.monitor = monitor
	e.logger = logger

	return e
}
