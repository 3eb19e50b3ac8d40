// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package quota -destination ./mock_quota.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package quota -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package quota -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package quota -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

var october = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func tenantScope(t *types.Tenant) *types.Scope {
	return &types.Scope{
		Identity: &types.Identity{ID: "u-1", Role: types.RoleSalesRep, TenantID: t.ID},
		Tenant:   t,
	}
}

func TestLedger_CheckAndReserve(t *testing.T) {
	tenant := &types.Tenant{ID: "t-1", IsActive: true, MaxLeadsPerMonth: 100, MaxCustomers: 500, MaxUsers: 10}
	dbErr := errors.New("db error")

	testCases := []struct {
		name            string
		scope           *types.Scope
		resource        types.Resource
		setupMocks      func(*MockStorageInterface, *MockSecurityLoggerInterface)
		expectedCode    apierror.Code
		expectedDetails map[string]any
	}{
		{
			name:       "super admin bypasses",
			scope:      &types.Scope{Identity: &types.Identity{ID: "root", Role: types.RoleSuperAdmin}, IsSuperAdmin: true},
			resource:   types.ResourceLeads,
			setupMocks: func(*MockStorageInterface, *MockSecurityLoggerInterface) {},
		},
		{
			name:     "leads under quota",
			scope:    tenantScope(tenant),
			resource: types.ResourceLeads,
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().EnsureUsageEntry(gomock.Any(), "t-1", "2026-10").Return(&types.UsageLedgerEntry{TenantID: "t-1", MonthBucket: "2026-10", LeadsCreated: 99}, nil)
			},
		},
		{
			name:     "leads at quota",
			scope:    tenantScope(tenant),
			resource: types.ResourceLeads,
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().EnsureUsageEntry(gomock.Any(), "t-1", "2026-10").Return(&types.UsageLedgerEntry{TenantID: "t-1", MonthBucket: "2026-10", LeadsCreated: 100}, nil)
				sec.EXPECT().QuotaRejected("t-1", "leads", int64(100), int64(100))
			},
			expectedCode:    apierror.LeadQuotaExceeded,
			expectedDetails: map[string]any{"limit": int64(100), "current": int64(100)},
		},
		{
			name:     "customers at stock limit",
			scope:    tenantScope(tenant),
			resource: types.ResourceCustomers,
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().CountCustomers(gomock.Any(), "t-1").Return(int64(500), nil)
				sec.EXPECT().QuotaRejected("t-1", "customers", int64(500), int64(500))
			},
			expectedCode:    apierror.CustomerLimitReached,
			expectedDetails: map[string]any{"limit": int64(500), "current": int64(500)},
		},
		{
			name:     "users under stock limit",
			scope:    tenantScope(tenant),
			resource: types.ResourceUsers,
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().CountIdentities(gomock.Any(), "t-1").Return(int64(9), nil)
			},
		},
		{
			name:     "users at stock limit",
			scope:    tenantScope(tenant),
			resource: types.ResourceUsers,
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().CountIdentities(gomock.Any(), "t-1").Return(int64(12), nil)
				sec.EXPECT().QuotaRejected("t-1", "users", int64(10), int64(12))
			},
			expectedCode: apierror.UserLimitReached,
		},
		{
			name:     "zero limit is unlimited",
			scope:    tenantScope(&types.Tenant{ID: "t-2", IsActive: true}),
			resource: types.ResourceCustomers,
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().CountCustomers(gomock.Any(), "t-2").Return(int64(100000), nil)
			},
		},
		{
			name:     "storage failure is internal",
			scope:    tenantScope(tenant),
			resource: types.ResourceLeads,
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().EnsureUsageEntry(gomock.Any(), "t-1", "2026-10").Return(nil, dbErr)
			},
			expectedCode: apierror.Internal,
		},
		{
			name:         "unknown resource",
			scope:        tenantScope(tenant),
			resource:     types.Resource("widgets"),
			setupMocks:   func(*MockStorageInterface, *MockSecurityLoggerInterface) {},
			expectedCode: apierror.InvalidRequest,
		},
		{
			name:         "missing tenant",
			scope:        &types.Scope{Identity: &types.Identity{ID: "u-1", Role: types.RoleManager}},
			resource:     types.ResourceLeads,
			setupMocks:   func(*MockStorageInterface, *MockSecurityLoggerInterface) {},
			expectedCode: apierror.NoTenantAssigned,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockSecurity := NewMockSecurityLoggerInterface(ctrl)

			l := NewLedger(mockStorage, mockTracer, mockMonitor, mockLogger).WithClock(func() time.Time { return october })

			mockTracer.EXPECT().Start(gomock.Any(), "quota.Ledger.CheckAndReserve").Return(context.Background(), trace.SpanFromContext(context.Background()))
			mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()
			tc.setupMocks(mockStorage, mockSecurity)

			err := l.CheckAndReserve(context.Background(), tc.scope, tc.resource)

			if tc.expectedCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			e, ok := apierror.As(err)
			if !ok || e.Code != tc.expectedCode {
				t.Fatalf("expected %s, got %v", tc.expectedCode, err)
			}

			for k, v := range tc.expectedDetails {
				if e.Details[k] != v {
					t.Errorf("expected detail %s=%v, got %v", k, v, e.Details[k])
				}
			}
		})
	}
}

func TestLedger_RecordUsage(t *testing.T) {
	testCases := []struct {
		name       string
		tenantID   string
		setupMocks func(*MockStorageInterface, *MockLoggerInterface)
	}{
		{
			name:     "increments current month",
			tenantID: "t-1",
			setupMocks: func(s *MockStorageInterface, _ *MockLoggerInterface) {
				s.EXPECT().IncrementUsage(gomock.Any(), "t-1", "2026-10", types.UsageLeads, int64(1)).Return(nil)
			},
		},
		{
			name:     "failure is swallowed and logged",
			tenantID: "t-1",
			setupMocks: func(s *MockStorageInterface, l *MockLoggerInterface) {
				s.EXPECT().IncrementUsage(gomock.Any(), "t-1", "2026-10", types.UsageLeads, int64(1)).Return(errors.New("db down"))
				l.EXPECT().Errorf(gomock.Any(), gomock.Any()).Times(1)
			},
		},
		{
			name:     "unscoped call is skipped",
			tenantID: "",
			setupMocks: func(_ *MockStorageInterface, l *MockLoggerInterface) {
				l.EXPECT().Debugf(gomock.Any(), gomock.Any())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			l := NewLedger(mockStorage, mockTracer, NewMockMonitorInterface(ctrl), mockLogger).WithClock(func() time.Time { return october })

			mockTracer.EXPECT().Start(gomock.Any(), "quota.Ledger.RecordUsage").Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockLogger)

			l.RecordUsage(context.Background(), tc.tenantID, types.UsageLeads)
		})
	}
}

func TestLedger_RecordUsageSurvivesCancelledRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().IncrementUsage(gomock.Any(), "t-1", gomock.Any(), types.UsageAPICalls, int64(1)).
		DoAndReturn(func(ctx context.Context, _, _ string, _ types.UsageType, _ int64) error {
			return ctx.Err()
		})

	logger := logging.NewNoopLogger()
	l := NewLedger(mockStorage, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l.RecordUsage(ctx, "t-1", types.UsageAPICalls)
}

// memoryLedger mimics the single statement upsert of the usage ledger.
type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]*types.UsageLedgerEntry
	creates int
}

func (m *memoryLedger) key(tenantID, month string) string {
	return tenantID + "/" + month
}

func (m *memoryLedger) EnsureUsageEntry(_ context.Context, tenantID, month string) (*types.UsageLedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(tenantID, month)
	if _, ok := m.entries[k]; !ok {
		m.entries[k] = &types.UsageLedgerEntry{TenantID: tenantID, MonthBucket: month}
		m.creates++
	}

	e := *m.entries[k]
	return &e, nil
}

func (m *memoryLedger) IncrementUsage(_ context.Context, tenantID, month string, usage types.UsageType, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := m.key(tenantID, month)
	e, ok := m.entries[k]
	if !ok {
		e = &types.UsageLedgerEntry{TenantID: tenantID, MonthBucket: month}
		m.entries[k] = e
		m.creates++
	}

	if usage == types.UsageLeads {
		e.LeadsCreated += delta
	}

	return nil
}

func (m *memoryLedger) CountCustomers(context.Context, string) (int64, error) { return 0, nil }

func (m *memoryLedger) CountIdentities(context.Context, string) (int64, error) { return 0, nil }

func TestLedger_ConcurrentFirstUse(t *testing.T) {
	const n = 50

	store := &memoryLedger{entries: map[string]*types.UsageLedgerEntry{}}
	logger := logging.NewNoopLogger()
	l := NewLedger(store, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger).
		WithClock(func() time.Time { return october })

	scope := tenantScope(&types.Tenant{ID: "t-1", IsActive: true, MaxLeadsPerMonth: 1000})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.CheckAndReserve(context.Background(), scope, types.ResourceLeads); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RecordUsage(context.Background(), "t-1", types.UsageLeads)
		}()
	}
	wg.Wait()

	if store.creates != 1 || len(store.entries) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d creates and %d rows", store.creates, len(store.entries))
	}

	entry, _ := l.Usage(context.Background(), "t-1")
	if entry.LeadsCreated != n {
		t.Fatalf("expected %d leads, got %d", n, entry.LeadsCreated)
	}
}

func TestLedger_QuotaCheckNeverMutates(t *testing.T) {
	store := &memoryLedger{entries: map[string]*types.UsageLedgerEntry{
		"t-1/2026-10": {TenantID: "t-1", MonthBucket: "2026-10", LeadsCreated: 5},
	}}
	logger := logging.NewNoopLogger()
	l := NewLedger(store, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger).
		WithClock(func() time.Time { return october })

	scope := tenantScope(&types.Tenant{ID: "t-1", IsActive: true, MaxLeadsPerMonth: 5})

	for i := 0; i < 3; i++ {
		if !apierror.Is(l.CheckAndReserve(context.Background(), scope, types.ResourceLeads), apierror.LeadQuotaExceeded) {
			t.Fatal("expected LeadQuotaExceeded")
		}
	}

	if got := store.entries["t-1/2026-10"].LeadsCreated; got != 5 {
		t.Fatalf("expected counter to stay at 5, got %d", got)
	}
}
