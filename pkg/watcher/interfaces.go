// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package watcher

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type ServiceInterface interface {
	RunMonitoringCycle(ctx context.Context) (*types.CycleSummary, error)
}

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	ListMonitoredCustomers(ctx context.Context) ([]*types.MonitoredCustomer, error)
	GetLatestSnapshot(ctx context.Context, customerID string) (*types.Snapshot, error)
	SaveSnapshot(ctx context.Context, s *types.Snapshot) error
	CreateAlert(ctx context.Context, a *types.Alert) error
}

// TransactorInterface runs fn in a transaction carried by its context.
type TransactorInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type CollectorInterface interface {
	FetchState(ctx context.Context, customerID string) (*types.CustomerState, error)
}

type UsageInterface interface {
	RecordUsage(ctx context.Context, tenantID string, usage types.UsageType)
}
