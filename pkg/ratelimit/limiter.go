// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package ratelimit counts tenant requests in fixed windows held in redis,
// so every instance shares the same counters. Without redis it only records
// api_calls usage.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

const keyPrefix = "lead-access:rate"

var _ LimiterInterface = (*Limiter)(nil)

type Limiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	usage  UsageInterface

	now func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Allow counts one request of tenantID in the current window. An
// unreachable redis lets the request through, as does a limiter built
// without a client or a limit.
func (l *Limiter) Allow(ctx context.Context, tenantID string) error {
	ctx, span := l.tracer.Start(ctx, "ratelimit.Limiter.Allow")
	defer span.End()

	if l.limit <= 0 || l.client == nil {
		return nil
	}

	key := l.key(tenantID)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.availability(0)
		l.logger.Warnf("rate counter unavailable, letting tenant %s through: %v", tenantID, err)
		return nil
	}

	l.availability(1)

	if current := incr.Val(); current > l.limit {
		return apierror.Limit(apierror.RateLimited, "rate limit exceeded", l.limit, current)
	}

	return nil
}

// Middleware enforces the counter for tenant scoped requests and records
// the accepted ones as api_calls usage. Super admins are not counted.
func (l *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, ok := tenant.GetScope(r.Context())
			if !ok || scope.IsSuperAdmin || scope.TenantID() == "" {
				next.ServeHTTP(w, r)
				return
			}

			if err := l.Allow(r.Context(), scope.TenantID()); err != nil {
				httpTypes.WriteError(w, l.logger, err)
				return
			}

			l.usage.RecordUsage(r.Context(), scope.TenantID(), types.UsageAPICalls)

			next.ServeHTTP(w, r)
		})
	}
}

func (l *Limiter) key(tenantID string) string {
	bucket := l.now().UTC().Truncate(l.window).Unix()
	return fmt.Sprintf("%s:%s:%d", keyPrefix, tenantID, bucket)
}

func (l *Limiter) availability(v float64) {
	if err := l.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, v); err != nil {
		l.logger.Debugf("failed to set redis availability: %v", err)
	}
}

// WithClock overrides the time source picking the window.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func NewLimiter(
	client redis.Cmdable,
	limit int64,
	window time.Duration,
	usage UsageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Limiter {
	l := new(Limiter)

	l.client = client
	l.limit = limit
	l.window = window
	l.usage = usage
	l.now = time.Now

	l.tracer = tracer
	l.monitor = monitor
	l.logger = logger

	return l
}
