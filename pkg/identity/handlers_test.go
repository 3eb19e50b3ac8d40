// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

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

func TestAPI_Endpoints(t *testing.T) {
	scope := &types.Scope{
		Identity: &types.Identity{ID: "admin", Role: types.RoleTenantAdmin, TenantID: "t-1"},
		Tenant:   &types.Tenant{ID: "t-1", IsActive: true},
	}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		scoped         bool
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "provision",
			method: http.MethodPost,
			path:   "/identities",
			body:   `{"email":"rep@acme.io","role":"sales_rep"}`,
			scoped: true,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionIdentity(gomock.Any(), scope, &ProvisionRequest{Email: "rep@acme.io", Role: "sales_rep"}).
					Return(&ProvisionResult{Identity: &types.Identity{ID: "u-1"}}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "terminal manager needs a terminal code",
			method:         http.MethodPost,
			path:           "/identities",
			body:           `{"email":"tm@acme.io","role":"terminal_manager"}`,
			scoped:         true,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
		},
		{
			name:   "quota rejection carries limit and current",
			method: http.MethodPost,
			path:   "/identities",
			body:   `{"email":"rep@acme.io","role":"sales_rep"}`,
			scoped: true,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ProvisionIdentity(gomock.Any(), scope, gomock.Any()).
					Return(nil, apierror.Limit(apierror.UserLimitReached, "users limit reached", 10, 10))
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   string(apierror.UserLimitReached),
		},
		{
			name:   "status change",
			method: http.MethodPatch,
			path:   "/identities/u-1/status",
			body:   `{"status":"inactive"}`,
			scoped: true,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SetIdentityStatus(gomock.Any(), scope, "u-1", types.IdentityInactive).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			method:         http.MethodPatch,
			path:           "/identities/u-1/status",
			body:           `{"status":"deleted"}`,
			scoped:         true,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
		},
		{
			name:           "no scope",
			method:         http.MethodPost,
			path:           "/identities",
			body:           `{"email":"rep@acme.io","role":"sales_rep"}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   string(apierror.Unauthenticated),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockService)

			router := chi.NewRouter()
			NewAPI(mockService, nil, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), NewMockLoggerInterface(ctrl)).RegisterEndpoints(router)

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.scoped {
				req = req.WithContext(tenant.WithScope(req.Context(), scope))
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedCode == "" {
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
