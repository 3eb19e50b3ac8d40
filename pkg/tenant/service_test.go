// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

func newTestService(ctrl *gomock.Controller, span string) (*Service, *MockStorageInterface, *MockLoggerInterface, *MockSecurityLoggerInterface) {
	mockStorage := NewMockStorageInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)
	mockSecurity := NewMockSecurityLoggerInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), span).DoAndReturn(
		func(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
			return ctx, trace.SpanFromContext(ctx)
		},
	)
	mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()

	return NewService(mockStorage, mockTracer, NewMockMonitorInterface(ctrl), mockLogger), mockStorage, mockLogger, mockSecurity
}

func TestService_CreateTenant(t *testing.T) {
	testCases := []struct {
		name         string
		req          *CreateTenantRequest
		setupMocks   func(*MockStorageInterface, *MockSecurityLoggerInterface)
		expectedCode apierror.Code
	}{
		{
			name: "success normalizes domain",
			req:  &CreateTenantRequest{CompanyName: " Acme ", Domain: "ACME.io", MaxCustomers: 500},
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
						if t.CompanyName != "Acme" || t.Domain != "acme.io" || !t.IsActive || t.MaxCustomers != 500 {
							return nil, fmt.Errorf("unexpected tenant %+v", t)
						}
						c := *t
						c.ID = "t-1"
						return &c, nil
					},
				)
				sec.EXPECT().AdminAction("", "tenant_create", "t-1")
			},
		},
		{
			name: "duplicate domain",
			req:  &CreateTenantRequest{CompanyName: "Acme", Domain: "acme.io"},
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("tenant domain already registered: %w", storage.ErrDuplicateKey))
			},
			expectedCode: apierror.InvalidRequest,
		},
		{
			name: "storage failure",
			req:  &CreateTenantRequest{CompanyName: "Acme"},
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode: apierror.Internal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, mockStorage, _, mockSecurity := newTestService(ctrl, "tenant.Service.CreateTenant")
			tc.setupMocks(mockStorage, mockSecurity)

			tenant, err := s.CreateTenant(context.Background(), tc.req)

			if tc.expectedCode != "" {
				if !apierror.Is(err, tc.expectedCode) {
					t.Fatalf("expected %s, got %v", tc.expectedCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tenant.ID != "t-1" {
				t.Errorf("expected t-1, got %s", tenant.ID)
			}
		})
	}
}

func TestService_UpdateTenant(t *testing.T) {
	name := "Acme Corp"
	leads := int64(250)

	testCases := []struct {
		name         string
		req          *UpdateTenantRequest
		setupMocks   func(*MockStorageInterface, *MockSecurityLoggerInterface)
		expectedCode apierror.Code
	}{
		{
			name: "only set fields change",
			req:  &UpdateTenantRequest{CompanyName: &name, MaxLeadsPerMonth: &leads},
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "t-1").Return(&types.Tenant{ID: "t-1", CompanyName: "Acme", MaxLeadsPerMonth: 100, MaxCustomers: 500, IsActive: true}, nil)
				s.EXPECT().UpdateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
						if t.CompanyName != name || t.MaxLeadsPerMonth != leads || t.MaxCustomers != 500 {
							return nil, fmt.Errorf("unexpected tenant %+v", t)
						}
						return t, nil
					},
				)
				sec.EXPECT().AdminAction("root", "tenant_update", "t-1")
			},
		},
		{
			name: "unknown tenant",
			req:  &UpdateTenantRequest{CompanyName: &name},
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "t-1").Return(nil, storage.ErrNotFound)
			},
			expectedCode: apierror.TenantNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, mockStorage, _, mockSecurity := newTestService(ctrl, "tenant.Service.UpdateTenant")
			tc.setupMocks(mockStorage, mockSecurity)

			ctx := authentication.WithUserID(context.Background(), "root")
			_, err := s.UpdateTenant(ctx, "t-1", tc.req)

			if tc.expectedCode != "" {
				if !apierror.Is(err, tc.expectedCode) {
					t.Fatalf("expected %s, got %v", tc.expectedCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestService_SetTenantStatus(t *testing.T) {
	testCases := []struct {
		name         string
		active       bool
		setupMocks   func(*MockStorageInterface, *MockSecurityLoggerInterface)
		expectedCode apierror.Code
	}{
		{
			name:   "deactivate",
			active: false,
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().SetTenantStatus(gomock.Any(), "t-1", false).Return(nil)
				sec.EXPECT().AdminAction("root", "tenant_deactivate", "t-1")
			},
		},
		{
			name:   "activate",
			active: true,
			setupMocks: func(s *MockStorageInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().SetTenantStatus(gomock.Any(), "t-1", true).Return(nil)
				sec.EXPECT().AdminAction("root", "tenant_activate", "t-1")
			},
		},
		{
			name:   "unknown tenant",
			active: true,
			setupMocks: func(s *MockStorageInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().SetTenantStatus(gomock.Any(), "t-1", true).Return(fmt.Errorf("tenant t-1: %w", storage.ErrNotFound))
			},
			expectedCode: apierror.TenantNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, mockStorage, _, mockSecurity := newTestService(ctrl, "tenant.Service.SetTenantStatus")
			tc.setupMocks(mockStorage, mockSecurity)

			err := s.SetTenantStatus(authentication.WithUserID(context.Background(), "root"), "t-1", tc.active)

			if tc.expectedCode == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.expectedCode != "" && !apierror.Is(err, tc.expectedCode) {
				t.Fatalf("expected %s, got %v", tc.expectedCode, err)
			}
		})
	}
}

func TestService_ListTenants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, mockStorage, _, _ := newTestService(ctrl, "tenant.Service.ListTenants")
	mockStorage.EXPECT().ListTenants(gomock.Any(), int64(2), int64(10)).Return(nil, errors.New("db error"))

	if _, err := s.ListTenants(context.Background(), 2, 10); !apierror.Is(err, apierror.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
}
