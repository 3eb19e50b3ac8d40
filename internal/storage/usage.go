// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/types"
)

var usageColumns = []string{
	"tenant_id",
	"month_bucket",
	"leads_created",
	"customers_created",
	"api_calls",
	"monitoring_checks",
	"updated_at",
}

func scanUsage(row sq.RowScanner) (*types.UsageLedgerEntry, error) {
	var u types.UsageLedgerEntry
	err := row.Scan(
		&u.TenantID,
		&u.MonthBucket,
		&u.LeadsCreated,
		&u.CustomersCreated,
		&u.APICalls,
		&u.MonitoringChecks,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUsageEntry creates the (tenant, month) row when missing and returns
// the stored row. Concurrent first use resolves to a single row: losing the
// insert race is not an error, the winner's row is read back.
func (s *Storage) EnsureUsageEntry(ctx context.Context, tenantID, month string) (*types.UsageLedgerEntry, error) {
	ctx, span := s.tracer.Start(ctx, "storage.EnsureUsageEntry")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Insert("usage_ledger").
		Columns("tenant_id", "month_bucket").
		Values(tenantID, month).
		Suffix("ON CONFLICT (tenant_id, month_bucket) DO NOTHING").
		ExecContext(ctx)
	if err != nil && !IsDuplicateKeyError(err) {
		if IsForeignKeyViolation(err) {
			return nil, WrapForeignKeyError(err, "usage entry references unknown tenant")
		}
		return nil, fmt.Errorf("failed to create usage entry: %w", err)
	}

	return s.GetUsageEntry(ctx, tenantID, month)
}

func (s *Storage) GetUsageEntry(ctx context.Context, tenantID, month string) (*types.UsageLedgerEntry, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetUsageEntry")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(usageColumns...).
		From("usage_ledger").
		Where(sq.Eq{"tenant_id": tenantID, "month_bucket": month}).
		QueryRowContext(ctx)

	u, err := scanUsage(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get usage entry: %w", err)
	}

	return u, nil
}

// IncrementUsage adds delta to one counter of the (tenant, month) row,
// creating the row if needed, in a single statement.
func (s *Storage) IncrementUsage(ctx context.Context, tenantID, month string, usage types.UsageType, delta int64) error {
	ctx, span := s.tracer.Start(ctx, "storage.IncrementUsage")
	defer span.End()

	column, ok := usage.Column()
	if !ok {
		return fmt.Errorf("unknown usage type %q", usage)
	}

	_, err := s.db.Statement(ctx).
		Insert("usage_ledger").
		Columns("tenant_id", "month_bucket", column).
		Values(tenantID, month, delta).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (tenant_id, month_bucket) DO UPDATE SET %[1]s = usage_ledger.%[1]s + EXCLUDED.%[1]s, updated_at = NOW()",
			column,
		)).
		ExecContext(ctx)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return WrapForeignKeyError(err, "usage entry references unknown tenant")
		}
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	return nil
}

func (s *Storage) CountCustomers(ctx context.Context, tenantID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CountCustomers")
	defer span.End()

	var count int64
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("customers").
		Where(sq.Eq{"tenant_id": tenantID}).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
