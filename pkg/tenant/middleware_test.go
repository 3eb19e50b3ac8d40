// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

func TestMiddleware_Scope(t *testing.T) {
	root := &types.Identity{ID: "root", Role: types.RoleSuperAdmin}
	rep := &types.Identity{ID: "u-1", Role: types.RoleSalesRep, TenantID: "t-1"}
	acme := &types.Tenant{ID: "t-1", IsActive: true}

	tests := []struct {
		name             string
		identity         *types.Identity
		header           string
		query            string
		setupMocks       func(*MockResolverInterface, *MockSecurityLoggerInterface)
		expectedStatus   int
		expectedErrCode  string
		expectedTenantID string
	}{
		{
			name:     "scope attached",
			identity: rep,
			setupMocks: func(r *MockResolverInterface, _ *MockSecurityLoggerInterface) {
				r.EXPECT().Resolve(gomock.Any(), rep, "").Return(&types.Scope{Identity: rep, Tenant: acme}, nil)
			},
			expectedStatus:   http.StatusOK,
			expectedTenantID: "t-1",
		},
		{
			name:     "header override reaches the resolver",
			identity: root,
			header:   "t-1",
			query:    "t-ignored",
			setupMocks: func(r *MockResolverInterface, sec *MockSecurityLoggerInterface) {
				r.EXPECT().Resolve(gomock.Any(), root, "t-1").Return(&types.Scope{Identity: root, Tenant: acme, IsSuperAdmin: true, Impersonating: true}, nil)
				sec.EXPECT().TenantImpersonation("root", "t-1", "/api/v0/me")
			},
			expectedStatus:   http.StatusOK,
			expectedTenantID: "t-1",
		},
		{
			name:     "query override reaches the resolver",
			identity: root,
			query:    "t-1",
			setupMocks: func(r *MockResolverInterface, sec *MockSecurityLoggerInterface) {
				r.EXPECT().Resolve(gomock.Any(), root, "t-1").Return(&types.Scope{Identity: root, Tenant: acme, IsSuperAdmin: true, Impersonating: true}, nil)
				sec.EXPECT().TenantImpersonation("root", "t-1", "/api/v0/me")
			},
			expectedStatus:   http.StatusOK,
			expectedTenantID: "t-1",
		},
		{
			name:     "resolver rejection",
			identity: rep,
			setupMocks: func(r *MockResolverInterface, _ *MockSecurityLoggerInterface) {
				r.EXPECT().Resolve(gomock.Any(), rep, "").Return(nil, apierror.New(apierror.TenantInactive, "tenant is inactive"))
			},
			expectedStatus:  http.StatusForbidden,
			expectedErrCode: string(apierror.TenantInactive),
		},
		{
			name:            "unauthenticated",
			setupMocks:      func(*MockResolverInterface, *MockSecurityLoggerInterface) {},
			expectedStatus:  http.StatusUnauthorized,
			expectedErrCode: string(apierror.Unauthenticated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockResolver := NewMockResolverInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockSecurity := NewMockSecurityLoggerInterface(ctrl)

			mockTracer.EXPECT().Start(gomock.Any(), "tenant.Middleware.Scope").DoAndReturn(
				func(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
					return ctx, trace.SpanFromContext(ctx)
				},
			)
			mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()
			tt.setupMocks(mockResolver, mockSecurity)

			m := NewMiddleware(mockResolver, mockTracer, NewMockMonitorInterface(ctrl), mockLogger)

			var seen *types.Scope
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = GetScope(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v0/me", nil)
			if tt.header != "" {
				req.Header.Set(ScopeHeader, tt.header)
			}
			if tt.query != "" {
				q := req.URL.Query()
				q.Set(ScopeQueryParam, tt.query)
				req.URL.RawQuery = q.Encode()
			}
			if tt.identity != nil {
				req = req.WithContext(authentication.WithIdentity(req.Context(), tt.identity))
			}

			w := httptest.NewRecorder()
			m.Scope()(next).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedErrCode != "" {
				var body httpTypes.ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode error: %v", err)
				}
				if body.ErrorCode != tt.expectedErrCode {
					t.Errorf("expected error code %s, got %s", tt.expectedErrCode, body.ErrorCode)
				}
				return
			}

			if seen == nil || seen.TenantID() != tt.expectedTenantID {
				t.Errorf("expected scope for tenant %s, got %+v", tt.expectedTenantID, seen)
			}
		})
	}
}
