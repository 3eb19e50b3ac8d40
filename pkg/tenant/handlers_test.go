// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

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
)

func TestAPI_Endpoints(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		expectedCode   string
		audited        string
	}{
		{
			name:   "list tenants with pagination",
			method: http.MethodGet,
			path:   "/tenants?page=2&size=5",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ListTenants(gomock.Any(), int64(2), int64(5)).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "get unknown tenant",
			method: http.MethodGet,
			path:   "/tenants/t-404",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().GetTenant(gomock.Any(), "t-404").Return(nil, apierror.New(apierror.TenantNotFound, "tenant t-404 not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   string(apierror.TenantNotFound),
		},
		{
			name:   "create tenant",
			method: http.MethodPost,
			path:   "/tenants",
			body:   `{"companyName":"Acme","domain":"acme.io","maxCustomers":500}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().CreateTenant(gomock.Any(), &CreateTenantRequest{CompanyName: "Acme", Domain: "acme.io", MaxCustomers: 500}).
					Return(&types.Tenant{ID: "t-1", CompanyName: "Acme", IsActive: true}, nil)
			},
			expectedStatus: http.StatusCreated,
			audited:        "tenant.create",
		},
		{
			name:           "create tenant with negative limit",
			method:         http.MethodPost,
			path:           "/tenants",
			body:           `{"companyName":"Acme","maxUsers":-1}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
			audited:        "tenant.create",
		},
		{
			name:           "status without flag",
			method:         http.MethodPatch,
			path:           "/tenants/t-1/status",
			body:           `{}`,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
			audited:        "tenant.status",
		},
		{
			name:   "deactivate tenant",
			method: http.MethodPatch,
			path:   "/tenants/t-1/status",
			body:   `{"active":false}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().SetTenantStatus(gomock.Any(), "t-1", false).Return(nil)
			},
			expectedStatus: http.StatusOK,
			audited:        "tenant.status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockService)

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
			NewAPI(mockService, audit, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), NewMockLoggerInterface(ctrl)).RegisterEndpoints(router)

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if audited != tt.audited {
				t.Errorf("expected audit label %q, got %q", tt.audited, audited)
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
