// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_tracer.go -source=../../internal/tracing/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package authentication -destination ./mock_interfaces.go -source=./interfaces.go

func TestMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name               string
		authHeader         string
		setupMocks         func(*gomock.Controller, *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface)
		expectedStatusCode int
		expectedErrorCode  string
		expectedIdentity   string
	}{
		{
			name:       "Missing token - rejects request",
			authHeader: "",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				security.EXPECT().AuthnFailure(gomock.Any())
				return NewMockTokenVerifierInterface(ctrl), NewMockIdentityResolverInterface(ctrl)
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedErrorCode:  string(apierror.Unauthenticated),
		},
		{
			name:       "Invalid token format - rejects request",
			authHeader: "Basic dXNlcjpwYXNz",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				security.EXPECT().AuthnFailure(gomock.Any())
				return NewMockTokenVerifierInterface(ctrl), NewMockIdentityResolverInterface(ctrl)
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedErrorCode:  string(apierror.Unauthenticated),
		},
		{
			name:       "Empty bearer - rejects request",
			authHeader: "Bearer   ",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				security.EXPECT().AuthnFailure(gomock.Any())
				return NewMockTokenVerifierInterface(ctrl), NewMockIdentityResolverInterface(ctrl)
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedErrorCode:  string(apierror.Unauthenticated),
		},
		{
			name:       "Token verification fails - rejects request",
			authHeader: "Bearer invalid-token",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				mockVerifier := NewMockTokenVerifierInterface(ctrl)
				mockVerifier.EXPECT().VerifyToken(gomock.Any(), "invalid-token").Return("", fmt.Errorf("token is expired"))
				security.EXPECT().AuthnFailure("invalid credential")
				return mockVerifier, NewMockIdentityResolverInterface(ctrl)
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedErrorCode:  string(apierror.InvalidCredential),
		},
		{
			name:       "Unknown identity - rejects request",
			authHeader: "Bearer valid-token",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				mockVerifier := NewMockTokenVerifierInterface(ctrl)
				mockVerifier.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return("user-404", nil)
				mockResolver := NewMockIdentityResolverInterface(ctrl)
				mockResolver.EXPECT().ResolveIdentity(gomock.Any(), "user-404").Return(nil, apierror.New(apierror.IdentityNotFound, "identity not found"))
				return mockVerifier, mockResolver
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedErrorCode:  string(apierror.IdentityNotFound),
		},
		{
			name:       "Inactive identity - rejects request",
			authHeader: "Bearer valid-token",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				mockVerifier := NewMockTokenVerifierInterface(ctrl)
				mockVerifier.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return("user-9", nil)
				mockResolver := NewMockIdentityResolverInterface(ctrl)
				mockResolver.EXPECT().ResolveIdentity(gomock.Any(), "user-9").Return(nil, apierror.New(apierror.IdentityInactive, "identity is not active"))
				return mockVerifier, mockResolver
			},
			expectedStatusCode: http.StatusForbidden,
			expectedErrorCode:  string(apierror.IdentityInactive),
		},
		{
			name:       "Valid token",
			authHeader: "Bearer valid-token",
			setupMocks: func(ctrl *gomock.Controller, security *MockSecurityLoggerInterface) (TokenVerifierInterface, IdentityResolverInterface) {
				mockVerifier := NewMockTokenVerifierInterface(ctrl)
				mockVerifier.EXPECT().VerifyToken(gomock.Any(), "valid-token").Return("user-123", nil)
				mockResolver := NewMockIdentityResolverInterface(ctrl)
				mockResolver.EXPECT().ResolveIdentity(gomock.Any(), "user-123").Return(
					&types.Identity{ID: "user-123", Role: types.RoleSalesRep, TenantID: "t-1", Status: types.IdentityActive},
					nil,
				)
				return mockVerifier, mockResolver
			},
			expectedStatusCode: http.StatusOK,
			expectedIdentity:   "user-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockSecurity := NewMockSecurityLoggerInterface(ctrl)

			ctx := context.Background()
			mockTracer.EXPECT().Start(gomock.Any(), "authentication.Middleware.Authenticate").Return(ctx, trace.SpanFromContext(ctx))
			mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
			mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()

			verifier, resolver := tt.setupMocks(ctrl, mockSecurity)

			middleware := NewMiddleware(verifier, resolver, mockTracer, mockMonitor, mockLogger)

			var seen string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := GetIdentity(r.Context())
				if !ok {
					t.Fatal("identity missing from context")
				}
				if userID, _ := GetUserID(r.Context()); userID != identity.ID {
					t.Errorf("expected user id %s, got %s", identity.ID, userID)
				}
				seen = identity.ID
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v0/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middleware.Authenticate()(handler).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Errorf("expected status %d, got %d", tt.expectedStatusCode, rr.Code)
			}

			if tt.expectedErrorCode != "" {
				var body httpTypes.ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.ErrorCode != tt.expectedErrorCode {
					t.Errorf("expected error code %s, got %s", tt.expectedErrorCode, body.ErrorCode)
				}
			}

			if seen != tt.expectedIdentity {
				t.Errorf("expected identity %q, got %q", tt.expectedIdentity, seen)
			}
		})
	}
}

func TestMiddleware_GetBearerToken(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "No Authorization header",
			authHeader:    "",
			expectedToken: "",
			expectedFound: false,
		},
		{
			name:          "Bearer token",
			authHeader:    "Bearer my-token-123",
			expectedToken: "my-token-123",
			expectedFound: true,
		},
		{
			name:          "Raw token without Bearer prefix",
			authHeader:    "my-token-123",
			expectedToken: "",
			expectedFound: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			middleware := NewMiddleware(
				NewMockTokenVerifierInterface(ctrl),
				NewMockIdentityResolverInterface(ctrl),
				NewMockTracingInterface(ctrl),
				NewMockMonitorInterface(ctrl),
				NewMockLoggerInterface(ctrl),
			)

			headers := http.Header{}
			if test.authHeader != "" {
				headers.Set("Authorization", test.authHeader)
			}

			token, found := middleware.getBearerToken(headers)

			if token != test.expectedToken {
				t.Errorf("expected token %q, got %q", test.expectedToken, token)
			}
			if found != test.expectedFound {
				t.Errorf("expected found %v, got %v", test.expectedFound, found)
			}
		})
	}
}
