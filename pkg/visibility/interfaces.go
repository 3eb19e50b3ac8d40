// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package visibility

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/types"
)

type EngineInterface interface {
	Build(ctx context.Context, scope *types.Scope, resource types.Resource) (*Filter, error)
}

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	ListDirectReportIDs(ctx context.Context, tenantID, managerID string) ([]string, error)
	ListTerminalPostalPrefixes(ctx context.Context, tenantID, terminalCode string) ([]string, error)
	CountVisible(ctx context.Context, resource types.Resource, pred sq.Sqlizer) (int64, error)
}
