// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/lead-access-service/internal/types"
)

// ListMonitoredCustomers returns the monitoring-enabled customers of active tenants.
func (s *Storage) ListMonitoredCustomers(ctx context.Context) ([]*types.MonitoredCustomer, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListMonitoredCustomers")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("c.id", "c.tenant_id", "c.name").
		From("customers c").
		Join("tenants t ON t.id = c.tenant_id").
		Where(sq.Eq{"c.monitoring_enabled": true, "t.is_active": true}).
		OrderBy("c.tenant_id", "c.id").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored customers: %w", err)
	}
	defer rows.Close()

	customers := make([]*types.MonitoredCustomer, 0)
	for rows.Next() {
		var c types.MonitoredCustomer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return customers, nil
}

func (s *Storage) GetLatestSnapshot(ctx context.Context, customerID string) (*types.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetLatestSnapshot")
	defer span.End()

	var (
		snap types.Snapshot
		raw  []byte
	)

	err := s.db.Statement(ctx).
		Select("customer_id", "state", "captured_at").
		From("customer_snapshots").
		Where(sq.Eq{"customer_id": customerID}).
		OrderBy("captured_at DESC").
		Limit(1).
		QueryRowContext(ctx).
		Scan(&snap.CustomerID, &raw, &snap.CapturedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal(raw, &snap.State); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot state: %w", err)
	}

	return &snap, nil
}

func (s *Storage) SaveSnapshot(ctx context.Context, snap *types.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "storage.SaveSnapshot")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate snapshot ID: %w", err)
	}

	state, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot state: %w", err)
	}

	_, err = s.db.Statement(ctx).
		Insert("customer_snapshots").
		Columns("id", "customer_id", "state", "captured_at").
		Values(id.String(), snap.CustomerID, state, snap.CapturedAt).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

func (s *Storage) CreateAlert(ctx context.Context, a *types.Alert) error {
	ctx, span := s.tracer.Start(ctx, "storage.CreateAlert")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate alert ID: %w", err)
	}

	_, err = s.db.Statement(ctx).
		Insert("monitoring_alerts").
		Columns("id", "tenant_id", "customer_id", "kind", "subject", "previous_value", "current_value").
		Values(id.String(), a.TenantID, a.CustomerID, string(a.Kind), a.Subject, a.Previous, a.Current).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	a.ID = id.String()

	return nil
}
