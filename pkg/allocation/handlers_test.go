// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package allocation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

func TestAPI_HandleAuthorize(t *testing.T) {
	scope := callerScope(&types.Identity{ID: "U5", Role: types.RoleManager, TenantID: "T1"})

	tests := []struct {
		name           string
		body           string
		scope          *types.Scope
		setupMocks     func(*MockAuthorizerInterface)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:  "allowed",
			body:  `{"resourceId":"L1","targetIdentityId":"U9"}`,
			scope: scope,
			setupMocks: func(a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), scope, "U9").Return(&Decision{TargetIdentityID: "U9", TargetTenantID: "T1", Allowed: true}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "outside team",
			body:  `{"resourceId":"L1","targetIdentityId":"U11"}`,
			scope: scope,
			setupMocks: func(a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), scope, "U11").Return(nil, apierror.New(apierror.OutsideTeam, "target is not a direct report"))
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   string(apierror.OutsideTeam),
		},
		{
			name:  "missing target",
			body:  `{"resourceId":"L1","targetIdentityId":"nobody"}`,
			scope: scope,
			setupMocks: func(a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), scope, "nobody").Return(nil, apierror.New(apierror.TargetNotFound, "identity nobody not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   string(apierror.TargetNotFound),
		},
		{
			name:           "missing resource id",
			body:           `{"targetIdentityId":"U9"}`,
			scope:          scope,
			setupMocks:     func(*MockAuthorizerInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
		},
		{
			name:           "no scope",
			body:           `{"resourceId":"L1","targetIdentityId":"U9"}`,
			setupMocks:     func(*MockAuthorizerInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   string(apierror.Unauthenticated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuthorizer := NewMockAuthorizerInterface(ctrl)
			tt.setupMocks(mockAuthorizer)

			var audited string
			audit := func(action string) func(http.Handler) http.Handler {
				return func(next http.Handler) http.Handler {
					return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						audited = action
						next.ServeHTTP(w, r)
					})
				}
			}

			router := chi.NewRouter()
			NewAPI(mockAuthorizer, audit, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), NewMockLoggerInterface(ctrl)).RegisterEndpoints(router)

			req := httptest.NewRequest(http.MethodPost, "/allocations/authorize", bytes.NewBufferString(tt.body))
			if tt.scope != nil {
				req = req.WithContext(tenant.WithScope(req.Context(), tt.scope))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if audited != "allocation.authorize" {
				t.Errorf("expected audit label allocation.authorize, got %q", audited)
			}

			if tt.expectedCode == "" {
				var body struct {
					Data Decision `json:"data"`
				}
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if body.Data.ResourceID != "L1" || !body.Data.Allowed {
					t.Errorf("unexpected decision %+v", body.Data)
				}
				return
			}

			var body httpTypes.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.ErrorCode != tt.expectedCode {
				t.Errorf("expected error code %s, got %s", tt.expectedCode, body.ErrorCode)
			}
		})
	}
}
