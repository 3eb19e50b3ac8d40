// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package quota enforces the per-tenant subscription ceilings.
//
// Leads are a flow limit, checked against the monthly counter of the usage
// ledger. Customers and users are stock limits, checked against the live
// row count and never reset.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

const defaultRecordTimeout = 5 * time.Second

var _ LedgerInterface = (*Ledger)(nil)

type Ledger struct {
	storage StorageInterface

	now           func() time.Time
	recordTimeout time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// CheckAndReserve rejects the creation of one more resource when the tenant
// in scope already reached its ceiling. It never mutates counters; callers
// record the usage once the resource exists.
func (l *Ledger) CheckAndReserve(ctx context.Context, scope *types.Scope, resource types.Resource) error {
	ctx, span := l.tracer.Start(ctx, "quota.Ledger.CheckAndReserve")
	defer span.End()

	if scope == nil {
		return apierror.New(apierror.Unauthenticated, "no request scope")
	}

	if scope.IsSuperAdmin {
		return nil
	}

	if scope.Tenant == nil {
		return apierror.New(apierror.NoTenantAssigned, "no tenant assigned")
	}

	tenant := scope.Tenant

	switch resource {
	case types.ResourceLeads:
		entry, err := l.storage.EnsureUsageEntry(ctx, tenant.ID, types.MonthBucket(l.now()))
		if err != nil {
			return apierror.Wrap(apierror.Internal, "failed to load usage ledger", err)
		}
		return l.enforce(scope, resource, apierror.LeadQuotaExceeded, tenant.MaxLeadsPerMonth, entry.LeadsCreated)

	case types.ResourceCustomers:
		current, err := l.storage.CountCustomers(ctx, tenant.ID)
		if err != nil {
			return apierror.Wrap(apierror.Internal, "failed to count customers", err)
		}
		return l.enforce(scope, resource, apierror.CustomerLimitReached, tenant.MaxCustomers, current)

	case types.ResourceUsers:
		current, err := l.storage.CountIdentities(ctx, tenant.ID)
		if err != nil {
			return apierror.Wrap(apierror.Internal, "failed to count users", err)
		}
		return l.enforce(scope, resource, apierror.UserLimitReached, tenant.MaxUsers, current)

	default:
		return apierror.Newf(apierror.InvalidRequest, "unknown quota resource %q", resource)
	}
}

// a limit of zero or less means unlimited
func (l *Ledger) enforce(scope *types.Scope, resource types.Resource, code apierror.Code, limit, current int64) error {
	if limit <= 0 || current < limit {
		return nil
	}

	l.logger.Security().QuotaRejected(scope.Tenant.ID, string(resource), limit, current)

	return apierror.Limit(code, fmt.Sprintf("%s limit reached", resource), limit, current)
}

// RecordUsage atomically adds one to the usage counter of the current month.
// It is best effort: failures are logged and never reach the caller, and the
// write is detached from request cancellation and from any request
// transaction so it cannot be half applied or rolled back.
func (l *Ledger) RecordUsage(ctx context.Context, tenantID string, usage types.UsageType) {
	ctx, span := l.tracer.Start(ctx, "quota.Ledger.RecordUsage")
	defer span.End()

	if tenantID == "" {
		l.logger.Debugf("skipping %s usage, no tenant in scope", usage)
		return
	}

	ctx, cancel := context.WithTimeout(db.Detach(context.WithoutCancel(ctx)), l.recordTimeout)
	defer cancel()

	if err := l.storage.IncrementUsage(ctx, tenantID, types.MonthBucket(l.now()), usage, 1); err != nil {
		l.logger.Errorf("failed to record %s usage for tenant %s: %v", usage, tenantID, err)
	}
}

// Usage returns the ledger entry of the current month, creating it if needed.
func (l *Ledger) Usage(ctx context.Context, tenantID string) (*types.UsageLedgerEntry, error) {
	ctx, span := l.tracer.Start(ctx, "quota.Ledger.Usage")
	defer span.End()

	if tenantID == "" {
		return nil, apierror.New(apierror.InvalidRequest, "a tenant scope is required")
	}

	entry, err := l.storage.EnsureUsageEntry(ctx, tenantID, types.MonthBucket(l.now()))
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "failed to load usage ledger", err)
	}

	return entry, nil
}

// WithClock overrides the time source used to pick the month bucket.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func NewLedger(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Ledger {
	l := new(Ledger)

	l.storage = storage
	l.now = time.Now
	l.recordTimeout = defaultRecordTimeout

	l.tracer = tracer
	l.monitor = monitor
	l.logger = logger

	return l
}
