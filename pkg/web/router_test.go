// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/audit"
	"github.com/canonical/lead-access-service/pkg/scheduler"
)

type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if token == "bad" {
		return "", errors.New("signature mismatch")
	}
	return token, nil
}

type identityResolver map[string]*types.Identity

func (r identityResolver) ResolveIdentity(_ context.Context, subject string) (*types.Identity, error) {
	return r[subject], nil
}

type scopeResolver struct{}

func (scopeResolver) Resolve(_ context.Context, identity *types.Identity, _ string) (*types.Scope, error) {
	scope := &types.Scope{Identity: identity, IsSuperAdmin: identity.IsSuperAdmin()}
	if identity.TenantID != "" {
		scope.Tenant = &types.Tenant{ID: identity.TenantID}
	}
	return scope, nil
}

type idleScheduler struct{}

func (idleScheduler) Start() bool { return false }
func (idleScheduler) Stop() bool  { return false }
func (idleScheduler) RunOnce(context.Context) (*types.CycleRun, error) {
	return nil, errors.New("not running")
}
func (idleScheduler) Status() *scheduler.Status {
	return &scheduler.Status{State: scheduler.StateStopped.String(), Interval: "1h0m0s"}
}

// passthroughDB runs transactional blocks without a database.
type passthroughDB struct{}

func (passthroughDB) Statement(context.Context) sq.StatementBuilderType { return sq.StatementBuilder }
func (passthroughDB) TxStatement(context.Context) (db.TxInterface, sq.StatementBuilderType, error) {
	return nil, sq.StatementBuilder, nil
}
func (passthroughDB) BeginTx(ctx context.Context) (context.Context, db.TxInterface, error) {
	return ctx, nil, nil
}
func (passthroughDB) WithTx(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
func (passthroughDB) Ping(context.Context) error                                       { return nil }
func (passthroughDB) Close()                                                           {}

type entryLog struct {
	mu      sync.Mutex
	entries []*types.AuditEntry
}

func (l *entryLog) Record(e *types.AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

func testRouter() http.Handler {
	return testRouterWithAudit(nil)
}

func testRouterWithAudit(trail audit.MiddlewareInterface) http.Handler {
	logger := logging.NewNoopLogger()

	deps := &Dependencies{
		Verifier: tokenVerifier{},
		IdentityResolver: identityResolver{
			"root":  {ID: "root", Role: types.RoleSuperAdmin, Status: types.IdentityActive},
			"admin": {ID: "admin", Role: types.RoleTenantAdmin, TenantID: "T1", Status: types.IdentityActive},
		},
		TenantResolver: scopeResolver{},
		Scheduler:      idleScheduler{},
		Audit:          trail,
	}

	return NewRouter(deps, passthroughDB{}, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger)
}

func TestRouter_Access(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
	}{
		{name: "status is public", method: http.MethodGet, path: "/api/v0/status", expectedStatus: http.StatusOK},
		{name: "metrics is public", method: http.MethodGet, path: "/api/v0/metrics", expectedStatus: http.StatusOK},
		{name: "scope requires a token", method: http.MethodGet, path: "/api/v0/me", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, path: "/api/v0/me", token: "bad", expectedStatus: http.StatusUnauthorized},
		{name: "me for tenant admin", method: http.MethodGet, path: "/api/v0/me", token: "admin", expectedStatus: http.StatusOK},
		{name: "scheduler requires super admin", method: http.MethodGet, path: "/api/v0/scheduler", token: "admin", expectedStatus: http.StatusForbidden},
		{name: "scheduler for super admin", method: http.MethodGet, path: "/api/v0/scheduler", token: "root", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/v0/nothing", token: "root", expectedStatus: http.StatusNotFound},
	}

	router := testRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v0/me", nil)
	req.Header.Set("Origin", "https://console.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestRouter_AuditsRejectedMutations(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		expectedStatus int
		expectedCaller string
		expectedTenant string
	}{
		{name: "missing token", expectedStatus: http.StatusUnauthorized},
		{name: "insufficient role", token: "admin", expectedStatus: http.StatusForbidden, expectedCaller: "admin", expectedTenant: "T1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewNoopLogger()
			log := new(entryLog)
			trail := audit.NewMiddleware(log, 0, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/scheduler/start", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			w := httptest.NewRecorder()
			testRouterWithAudit(trail).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if len(log.entries) != 1 {
				t.Fatalf("expected one audit entry, got %d", len(log.entries))
			}

			e := log.entries[0]
			if e.StatusCode != tt.expectedStatus || e.Method != http.MethodPost || e.Path != "/api/v0/scheduler/start" {
				t.Errorf("unexpected entry %+v", e)
			}

			if e.IdentityID != tt.expectedCaller || e.TenantID != tt.expectedTenant {
				t.Errorf("expected caller %q in %q, got %q in %q", tt.expectedCaller, tt.expectedTenant, e.IdentityID, e.TenantID)
			}
		})
	}
}
