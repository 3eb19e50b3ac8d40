// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package quota

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

// StorageInterface is the subset of internal/storage used by the ledger.
type StorageInterface interface {
	EnsureUsageEntry(ctx context.Context, tenantID, month string) (*types.UsageLedgerEntry, error)
	IncrementUsage(ctx context.Context, tenantID, month string, usage types.UsageType, delta int64) error
	CountCustomers(ctx context.Context, tenantID string) (int64, error)
	CountIdentities(ctx context.Context, tenantID string) (int64, error)
}

type LedgerInterface interface {
	CheckAndReserve(ctx context.Context, scope *types.Scope, resource types.Resource) error
	RecordUsage(ctx context.Context, tenantID string, usage types.UsageType)
	Usage(ctx context.Context, tenantID string) (*types.UsageLedgerEntry, error)
}
