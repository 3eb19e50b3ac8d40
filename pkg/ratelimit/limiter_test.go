// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

//go:generate mockgen -build_flags=--mod=mod -package ratelimit -destination ./mock_ratelimit.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package ratelimit -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package ratelimit -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package ratelimit -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

var fixedNow = time.Date(2026, time.October, 18, 9, 30, 15, 0, time.UTC)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func newTestLimiter(client redis.Cmdable, limit int64, usage UsageInterface) *Limiter {
	logger := logging.NewNoopLogger()
	return NewLimiter(client, limit, time.Minute, usage, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger).
		WithClock(func() time.Time { return fixedNow })
}

func TestLimiter_Allow(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	l := newTestLimiter(client, 3, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, "T1"))
	}

	err := l.Allow(ctx, "T1")
	require.Error(t, err)

	e, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.RateLimited, e.Code)
	assert.Equal(t, int64(3), e.Details["limit"])
	assert.Equal(t, int64(4), e.Details["current"])

	// other tenants have their own counter
	assert.NoError(t, l.Allow(ctx, "T2"))

	key := l.key("T1")
	assert.Equal(t, "lead-access:rate:T1:1792315800", key)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestLimiter_SharedAcrossInstances(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	a := newTestLimiter(client, 2, nil)
	b := newTestLimiter(client, 2, nil)

	require.NoError(t, a.Allow(ctx, "T1"))
	require.NoError(t, b.Allow(ctx, "T1"))
	assert.True(t, apierror.Is(a.Allow(ctx, "T1"), apierror.RateLimited))
}

func TestLimiter_NextWindowResets(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	now := fixedNow
	l := newTestLimiter(client, 1, nil).WithClock(func() time.Time { return now })

	require.NoError(t, l.Allow(ctx, "T1"))
	require.Error(t, l.Allow(ctx, "T1"))

	now = now.Add(time.Minute)
	assert.NoError(t, l.Allow(ctx, "T1"))
}

func TestLimiter_FailsOpen(t *testing.T) {
	mr, client := setupTestRedis(t)
	mr.Close()

	assert.NoError(t, newTestLimiter(client, 1, nil).Allow(context.Background(), "T1"))
}

func TestLimiter_Disabled(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := newTestLimiter(client, 0, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Allow(context.Background(), "T1"))
	}

	assert.Empty(t, mr.Keys())
}

func TestLimiter_MiddlewareWithoutRedis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsage := NewMockUsageInterface(ctrl)
	mockUsage.EXPECT().RecordUsage(gomock.Any(), "T1", types.UsageAPICalls).Times(3)

	handler := newTestLimiter(nil, 0, mockUsage).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	scope := &types.Scope{
		Identity: &types.Identity{ID: "U3", Role: types.RoleSalesRep, TenantID: "T1"},
		Tenant:   &types.Tenant{ID: "T1"},
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v0/usage", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req.WithContext(tenant.WithScope(req.Context(), scope)))

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestLimiter_Middleware(t *testing.T) {
	tenantScope := &types.Scope{
		Identity: &types.Identity{ID: "U3", Role: types.RoleSalesRep, TenantID: "T1"},
		Tenant:   &types.Tenant{ID: "T1"},
	}
	superAdmin := &types.Scope{
		Identity:     &types.Identity{ID: "root", Role: types.RoleSuperAdmin},
		Tenant:       &types.Tenant{ID: "T1"},
		IsSuperAdmin: true,
	}

	tests := []struct {
		name           string
		scope          *types.Scope
		requests       int
		setupMocks     func(*MockUsageInterface)
		expectedStatus int
	}{
		{
			name:     "within limit records api calls",
			scope:    tenantScope,
			requests: 2,
			setupMocks: func(u *MockUsageInterface) {
				u.EXPECT().RecordUsage(gomock.Any(), "T1", types.UsageAPICalls).Times(2)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "over limit",
			scope:    tenantScope,
			requests: 3,
			setupMocks: func(u *MockUsageInterface) {
				u.EXPECT().RecordUsage(gomock.Any(), "T1", types.UsageAPICalls).Times(2)
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "super admins are not counted",
			scope:          superAdmin,
			requests:       3,
			setupMocks:     func(*MockUsageInterface) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unscoped requests pass",
			requests:       3,
			setupMocks:     func(*MockUsageInterface) {},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			_, client := setupTestRedis(t)

			mockUsage := NewMockUsageInterface(ctrl)
			tt.setupMocks(mockUsage)

			handler := newTestLimiter(client, 2, mockUsage).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			var w *httptest.ResponseRecorder
			for i := 0; i < tt.requests; i++ {
				req := httptest.NewRequest(http.MethodGet, "/api/v0/usage", nil)
				if tt.scope != nil {
					req = req.WithContext(tenant.WithScope(req.Context(), tt.scope))
				}
				w = httptest.NewRecorder()
				handler.ServeHTTP(w, req)
			}

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
