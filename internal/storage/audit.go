// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/canonical/lead-access-service/internal/types"
)

// CreateAuditLog persists an audit entry. A missing audit_logs table is
// reported as ErrStoreAbsent.
func (s *Storage) CreateAuditLog(ctx context.Context, e *types.AuditEntry) error {
	ctx, span := s.tracer.Start(ctx, "storage.CreateAuditLog")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit ID: %w", err)
	}

	_, err = s.db.Statement(ctx).
		Insert("audit_logs").
		Columns(
			"id",
			"identity_id",
			"tenant_id",
			"action",
			"method",
			"path",
			"status_code",
			"duration_ms",
			"request_summary",
			"response_summary",
			"high_visibility",
		).
		Values(
			id.String(),
			e.IdentityID,
			e.TenantID,
			e.Action,
			e.Method,
			e.Path,
			e.StatusCode,
			e.DurationMs,
			e.RequestSummary,
			e.ResponseSummary,
			e.HighVisibility,
		).
		ExecContext(ctx)
	if err != nil {
		if IsUndefinedTableError(err) {
			return WrapUndefinedTableError(err, "audit_logs")
		}
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
