// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/types"
)

type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error)
	UpdateIdentityStatus(ctx context.Context, id string, status types.IdentityStatus) error
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
	ListAssignedRegions(ctx context.Context, identityID string) ([]string, error)
	ListDirectReportIDs(ctx context.Context, tenantID, managerID string) ([]string, error)
	ListTerminalPostalPrefixes(ctx context.Context, tenantID, terminalCode string) ([]string, error)
	CountIdentities(ctx context.Context, tenantID string) (int64, error)

	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error)
	ListTenants(ctx context.Context, page, size int64) ([]*types.Tenant, error)
	UpdateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	SetTenantStatus(ctx context.Context, id string, active bool) error

	EnsureUsageEntry(ctx context.Context, tenantID, month string) (*types.UsageLedgerEntry, error)
	GetUsageEntry(ctx context.Context, tenantID, month string) (*types.UsageLedgerEntry, error)
	IncrementUsage(ctx context.Context, tenantID, month string, usage types.UsageType, delta int64) error
	CountCustomers(ctx context.Context, tenantID string) (int64, error)

	CountVisible(ctx context.Context, resource types.Resource, pred sq.Sqlizer) (int64, error)

	ListMonitoredCustomers(ctx context.Context) ([]*types.MonitoredCustomer, error)
	GetLatestSnapshot(ctx context.Context, customerID string) (*types.Snapshot, error)
	SaveSnapshot(ctx context.Context, s *types.Snapshot) error
	CreateAlert(ctx context.Context, a *types.Alert) error

	CreateAuditLog(ctx context.Context, e *types.AuditEntry) error
}
