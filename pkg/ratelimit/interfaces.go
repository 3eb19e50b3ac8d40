// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package ratelimit

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type LimiterInterface interface {
	Allow(ctx context.Context, tenantID string) error
}

type UsageInterface interface {
	RecordUsage(ctx context.Context, tenantID string, usage types.UsageType)
}
