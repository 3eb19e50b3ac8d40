// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"context"
	"net/http"

	"github.com/canonical/lead-access-service/internal/types"
)

// StorageInterface is the subset of internal/storage used by this package.
type StorageInterface interface {
	CreateAuditLog(ctx context.Context, e *types.AuditEntry) error
}

type RecorderInterface interface {
	Record(e *types.AuditEntry)
}

type MiddlewareInterface interface {
	// Trail wraps a whole route group, rejected requests included.
	Trail() func(http.Handler) http.Handler
	// Attribute copies the caller known so far into the trail.
	Attribute() func(http.Handler) http.Handler
	// Audit labels a single route with its action.
	Audit(action string) func(http.Handler) http.Handler
}
