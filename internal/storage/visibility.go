// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/types"
)

var visibleTables = map[types.Resource]string{
	types.ResourceLeads:     "leads",
	types.ResourceCustomers: "customers",
}

// CountVisible counts the business rows of resource matched by pred, the
// read predicate produced by the visibility engine.
func (s *Storage) CountVisible(ctx context.Context, resource types.Resource, pred sq.Sqlizer) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CountVisible")
	defer span.End()

	table, ok := visibleTables[resource]
	if !ok {
		return 0, fmt.Errorf("resource %s has no visibility table", resource)
	}

	var count int64
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From(table).
		Where(pred).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count visible %s: %w", resource, err)
	}

	return count, nil
}
