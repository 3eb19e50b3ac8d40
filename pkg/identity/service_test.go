// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package identity -destination ./mock_identity.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package identity -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package identity -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package identity -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

var now = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

type mocks struct {
	storage  *MockStorageInterface
	quota    *MockQuotaInterface
	kratos   *MockKratosClientInterface
	logger   *MockLoggerInterface
	security *MockSecurityLoggerInterface
}

func setup(ctrl *gomock.Controller, span string, withKratos bool) (*Service, *mocks) {
	m := &mocks{
		storage:  NewMockStorageInterface(ctrl),
		quota:    NewMockQuotaInterface(ctrl),
		kratos:   NewMockKratosClientInterface(ctrl),
		logger:   NewMockLoggerInterface(ctrl),
		security: NewMockSecurityLoggerInterface(ctrl),
	}

	mockTracer := NewMockTracingInterface(ctrl)
	mockTracer.EXPECT().Start(gomock.Any(), span).Return(context.Background(), trace.SpanFromContext(context.Background()))
	m.logger.EXPECT().Security().Return(m.security).AnyTimes()

	var k KratosClientInterface
	if withKratos {
		k = m.kratos
	}

	s := NewService(m.storage, m.quota, k, "24h", mockTracer, NewMockMonitorInterface(ctrl), m.logger).
		WithClock(func() time.Time { return now })

	return s, m
}

func TestService_ResolveIdentity(t *testing.T) {
	testCases := []struct {
		name            string
		setupMocks      func(*mocks)
		expectedCode    apierror.Code
		expectedRegions []string
	}{
		{
			name: "active identity with regions",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", Status: types.IdentityActive}, nil)
				m.storage.EXPECT().ListAssignedRegions(gomock.Any(), "u-1").Return([]string{"north", "west"}, nil)
				m.storage.EXPECT().TouchLastSeen(gomock.Any(), "u-1", now).Return(nil)
				m.security.EXPECT().AuthnSuccess("u-1")
			},
			expectedRegions: []string{"north", "west"},
		},
		{
			name: "last seen failure does not fail the request",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", Status: types.IdentityActive}, nil)
				m.storage.EXPECT().ListAssignedRegions(gomock.Any(), "u-1").Return([]string{}, nil)
				m.storage.EXPECT().TouchLastSeen(gomock.Any(), "u-1", now).Return(errors.New("db error"))
				m.logger.EXPECT().Warnf(gomock.Any(), gomock.Any())
				m.security.EXPECT().AuthnSuccess("u-1")
			},
			expectedRegions: []string{},
		},
		{
			name: "unknown identity",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(nil, storage.ErrNotFound)
				m.security.EXPECT().AuthnFailure(gomock.Any())
			},
			expectedCode: apierror.IdentityNotFound,
		},
		{
			name: "inactive identity",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", Status: types.IdentityInactive}, nil)
				m.security.EXPECT().AuthnFailure(gomock.Any())
			},
			expectedCode: apierror.IdentityInactive,
		},
		{
			name: "pending identity",
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", Status: types.IdentityPending}, nil)
				m.security.EXPECT().AuthnFailure(gomock.Any())
			},
			expectedCode: apierror.IdentityInactive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := setup(ctrl, "identity.Service.ResolveIdentity", false)
			tc.setupMocks(m)

			identity, err := s.ResolveIdentity(context.Background(), "u-1")

			if tc.expectedCode != "" {
				if !apierror.Is(err, tc.expectedCode) {
					t.Fatalf("expected %s, got %v", tc.expectedCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if fmt.Sprint(identity.AssignedRegions) != fmt.Sprint(tc.expectedRegions) {
				t.Errorf("expected regions %v, got %v", tc.expectedRegions, identity.AssignedRegions)
			}
		})
	}
}

func TestService_ProvisionIdentity(t *testing.T) {
	acme := &types.Tenant{ID: "t-1", IsActive: true, MaxUsers: 10}
	admin := &types.Scope{Identity: &types.Identity{ID: "admin", Role: types.RoleTenantAdmin, TenantID: "t-1"}, Tenant: acme}
	root := &types.Scope{Identity: &types.Identity{ID: "root", Role: types.RoleSuperAdmin}, IsSuperAdmin: true}
	manager := &types.Scope{Identity: &types.Identity{ID: "m-1", Role: types.RoleManager, TenantID: "t-1"}, Tenant: acme}

	testCases := []struct {
		name         string
		scope        *types.Scope
		req          *ProvisionRequest
		withKratos   bool
		setupMocks   func(*mocks)
		expectedCode apierror.Code
		expectedLink string
	}{
		{
			name:  "local identity",
			scope: admin,
			req:   &ProvisionRequest{Email: "Rep@Acme.io", Role: "sales_rep", ManagerID: "m-1", AssignedRegions: []string{"north"}},
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "m-1").Return(&types.Identity{ID: "m-1", TenantID: "t-1"}, nil)
				m.quota.EXPECT().CheckAndReserve(gomock.Any(), admin, types.ResourceUsers).Return(nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "rep@acme.io").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) {
						if i.ID == "" || i.TenantID != "t-1" || i.Role != types.RoleSalesRep || i.Status != types.IdentityActive {
							return nil, fmt.Errorf("unexpected identity %+v", i)
						}
						return i, nil
					},
				)
				m.security.EXPECT().AdminAction("admin", "identity_provision", gomock.Any())
			},
		},
		{
			name:       "provider identity with invitation",
			scope:      admin,
			req:        &ProvisionRequest{Email: "new@acme.io", Role: "manager"},
			withKratos: true,
			setupMocks: func(m *mocks) {
				m.quota.EXPECT().CheckAndReserve(gomock.Any(), admin, types.ResourceUsers).Return(nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "new@acme.io").Return(nil, storage.ErrNotFound)
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@acme.io").Return("", nil)
				m.logger.EXPECT().Infof(gomock.Any(), gomock.Any())
				m.kratos.EXPECT().CreateIdentity(gomock.Any(), "new@acme.io", "").Return("k-1", nil)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) { return i, nil },
				)
				m.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "k-1", "24h").Return("https://login/recovery", nil)
				m.security.EXPECT().AdminAction("admin", "identity_provision", "k-1")
			},
			expectedLink: "https://login/recovery",
		},
		{
			name:  "user ceiling reached",
			scope: admin,
			req:   &ProvisionRequest{Email: "rep@acme.io", Role: "sales_rep"},
			setupMocks: func(m *mocks) {
				m.quota.EXPECT().CheckAndReserve(gomock.Any(), admin, types.ResourceUsers).Return(apierror.Limit(apierror.UserLimitReached, "users limit reached", 10, 10))
			},
			expectedCode: apierror.UserLimitReached,
		},
		{
			name:  "cannot grant super admin",
			scope: admin,
			req:   &ProvisionRequest{Email: "x@acme.io", Role: "super_admin"},
			setupMocks: func(*mocks) {
			},
			expectedCode: apierror.InvalidRequest,
		},
		{
			name:  "manager is not an administrator",
			scope: manager,
			req:   &ProvisionRequest{Email: "x@acme.io", Role: "sales_rep"},
			setupMocks: func(m *mocks) {
				m.security.EXPECT().AuthzFailure("m-1", gomock.Any())
			},
			expectedCode: apierror.InsufficientRole,
		},
		{
			name:         "super admin must narrow to a tenant",
			scope:        root,
			req:          &ProvisionRequest{Email: "x@acme.io", Role: "tenant_admin"},
			setupMocks:   func(*mocks) {},
			expectedCode: apierror.NoTenantAssigned,
		},
		{
			name:  "manager of another tenant",
			scope: admin,
			req:   &ProvisionRequest{Email: "x@acme.io", Role: "sales_rep", ManagerID: "m-9"},
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "m-9").Return(&types.Identity{ID: "m-9", TenantID: "t-2"}, nil)
			},
			expectedCode: apierror.CrossTenantViolation,
		},
		{
			name:  "unknown manager",
			scope: admin,
			req:   &ProvisionRequest{Email: "x@acme.io", Role: "sales_rep", ManagerID: "m-404"},
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "m-404").Return(nil, storage.ErrNotFound)
			},
			expectedCode: apierror.TargetNotFound,
		},
		{
			name:  "already provisioned",
			scope: admin,
			req:   &ProvisionRequest{Email: "rep@acme.io", Role: "sales_rep"},
			setupMocks: func(m *mocks) {
				m.quota.EXPECT().CheckAndReserve(gomock.Any(), admin, types.ResourceUsers).Return(nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "rep@acme.io").Return(&types.Identity{ID: "u-1"}, nil)
			},
			expectedCode: apierror.InvalidRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := setup(ctrl, "identity.Service.ProvisionIdentity", tc.withKratos)
			tc.setupMocks(m)

			result, err := s.ProvisionIdentity(context.Background(), tc.scope, tc.req)

			if tc.expectedCode != "" {
				if !apierror.Is(err, tc.expectedCode) {
					t.Fatalf("expected %s, got %v", tc.expectedCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.RecoveryLink != tc.expectedLink {
				t.Errorf("expected link %q, got %q", tc.expectedLink, result.RecoveryLink)
			}
		})
	}
}

func TestService_SetIdentityStatus(t *testing.T) {
	acme := &types.Tenant{ID: "t-1", IsActive: true}
	admin := &types.Scope{Identity: &types.Identity{ID: "admin", Role: types.RoleTenantAdmin, TenantID: "t-1"}, Tenant: acme}
	root := &types.Scope{Identity: &types.Identity{ID: "root", Role: types.RoleSuperAdmin}, IsSuperAdmin: true}

	testCases := []struct {
		name         string
		scope        *types.Scope
		id           string
		status       types.IdentityStatus
		withKratos   bool
		setupMocks   func(*mocks)
		expectedCode apierror.Code
	}{
		{
			name:       "deactivate and sync provider",
			scope:      admin,
			id:         "u-1",
			status:     types.IdentityInactive,
			withKratos: true,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", TenantID: "t-1", Role: types.RoleSalesRep, Status: types.IdentityActive}, nil)
				m.storage.EXPECT().UpdateIdentityStatus(gomock.Any(), "u-1", types.IdentityInactive).Return(nil)
				m.kratos.EXPECT().SetIdentityState(gomock.Any(), "u-1", false).Return(nil)
				m.security.EXPECT().AdminAction("admin", "identity_inactive", "u-1")
			},
		},
		{
			name:       "provider failure is only logged",
			scope:      admin,
			id:         "u-1",
			status:     types.IdentityInactive,
			withKratos: true,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", TenantID: "t-1", Role: types.RoleSalesRep, Status: types.IdentityActive}, nil)
				m.storage.EXPECT().UpdateIdentityStatus(gomock.Any(), "u-1", types.IdentityInactive).Return(nil)
				m.kratos.EXPECT().SetIdentityState(gomock.Any(), "u-1", false).Return(errors.New("kratos down"))
				m.logger.EXPECT().Warnf(gomock.Any(), gomock.Any())
				m.security.EXPECT().AdminAction("admin", "identity_inactive", "u-1")
			},
		},
		{
			name:   "reactivation checks the user ceiling",
			scope:  admin,
			id:     "u-1",
			status: types.IdentityActive,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", TenantID: "t-1", Role: types.RoleSalesRep, Status: types.IdentityInactive}, nil)
				m.quota.EXPECT().CheckAndReserve(gomock.Any(), admin, types.ResourceUsers).Return(apierror.Limit(apierror.UserLimitReached, "users limit reached", 5, 5))
			},
			expectedCode: apierror.UserLimitReached,
		},
		{
			name:   "identity of another tenant",
			scope:  admin,
			id:     "u-9",
			status: types.IdentityInactive,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-9").Return(&types.Identity{ID: "u-9", TenantID: "t-2", Role: types.RoleSalesRep}, nil)
				m.security.EXPECT().AuthzFailure("admin", "identity:u-9")
			},
			expectedCode: apierror.CrossTenantViolation,
		},
		{
			name:   "super admin crosses tenants",
			scope:  root,
			id:     "u-9",
			status: types.IdentityActive,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-9").Return(&types.Identity{ID: "u-9", TenantID: "t-2", Role: types.RoleTenantAdmin, Status: types.IdentityPending}, nil)
				m.storage.EXPECT().UpdateIdentityStatus(gomock.Any(), "u-9", types.IdentityActive).Return(nil)
				m.security.EXPECT().AdminAction("root", "identity_active", "u-9")
			},
		},
		{
			name:   "unknown identity",
			scope:  admin,
			id:     "u-404",
			status: types.IdentityInactive,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-404").Return(nil, storage.ErrNotFound)
			},
			expectedCode: apierror.TargetNotFound,
		},
		{
			name:         "own identity",
			scope:        admin,
			id:           "admin",
			status:       types.IdentityInactive,
			setupMocks:   func(*mocks) {},
			expectedCode: apierror.InvalidRequest,
		},
		{
			name:   "unchanged status is a no-op",
			scope:  admin,
			id:     "u-1",
			status: types.IdentityActive,
			setupMocks: func(m *mocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u-1").Return(&types.Identity{ID: "u-1", TenantID: "t-1", Role: types.RoleSalesRep, Status: types.IdentityActive}, nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := setup(ctrl, "identity.Service.SetIdentityStatus", tc.withKratos)
			tc.setupMocks(m)

			err := s.SetIdentityStatus(context.Background(), tc.scope, tc.id, tc.status)

			if tc.expectedCode == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.expectedCode != "" && !apierror.Is(err, tc.expectedCode) {
				t.Fatalf("expected %s, got %v", tc.expectedCode, err)
			}
		})
	}
}
