// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/types"
)

var tenantColumns = []string{
	"id",
	"company_name",
	"domain",
	"subscription_tier",
	"is_active",
	"max_users",
	"max_leads_per_month",
	"max_customers",
	"created_at",
}

func scanTenant(row sq.RowScanner) (*types.Tenant, error) {
	var t types.Tenant
	err := row.Scan(
		&t.ID,
		&t.CompanyName,
		&t.Domain,
		&t.SubscriptionTier,
		&t.IsActive,
		&t.MaxUsers,
		&t.MaxLeadsPerMonth,
		&t.MaxCustomers,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	row := s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "company_name", "domain", "subscription_tier", "is_active", "max_users", "max_leads_per_month", "max_customers").
		Values(id.String(), t.CompanyName, t.Domain, t.SubscriptionTier, t.IsActive, t.MaxUsers, t.MaxLeadsPerMonth, t.MaxCustomers).
		Suffix("RETURNING " + joinColumns(tenantColumns)).
		QueryRowContext(ctx)

	newTenant, err := scanTenant(row)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "tenant domain already registered")
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return newTenant, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"id": id})
}

// GetTenantByDomain matches the lower cased email domain of a tenant.
func (s *Storage) GetTenantByDomain(ctx context.Context, domain string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByDomain")
	defer span.End()

	return s.getTenant(ctx, sq.Eq{"domain": strings.ToLower(domain)})
}

func (s *Storage) getTenant(ctx context.Context, pred sq.Eq) (*types.Tenant, error) {
	row := s.db.Statement(ctx).
		Select(tenantColumns...).
		From("tenants").
		Where(pred).
		QueryRowContext(ctx)

	t, err := scanTenant(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return t, nil
}

func (s *Storage) ListTenants(ctx context.Context, page, size int64) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTenants")
	defer span.End()

	pageSize := db.PageSize(size)

	rows, err := s.db.Statement(ctx).
		Select(tenantColumns...).
		From("tenants").
		OrderBy("created_at").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	tenants := make([]*types.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return tenants, nil
}

// UpdateTenant overwrites the descriptive fields and the subscription limits.
// The active flag is left untouched, see SetTenantStatus.
func (s *Storage) UpdateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateTenant")
	defer span.End()

	row := s.db.Statement(ctx).
		Update("tenants").
		SetMap(map[string]any{
			"company_name":        t.CompanyName,
			"domain":              t.Domain,
			"subscription_tier":   t.SubscriptionTier,
			"max_users":           t.MaxUsers,
			"max_leads_per_month": t.MaxLeadsPerMonth,
			"max_customers":       t.MaxCustomers,
		}).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING " + joinColumns(tenantColumns)).
		QueryRowContext(ctx)

	updated, err := scanTenant(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "tenant domain already registered")
		}
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return updated, nil
}

func (s *Storage) SetTenantStatus(ctx context.Context, id string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetTenantStatus")
	defer span.End()

	result, err := s.db.Statement(ctx).
		Update("tenants").
		Set("is_active", active).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}

	return expectAffected(result, "tenant")
}
