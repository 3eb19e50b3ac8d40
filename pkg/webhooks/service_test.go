// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestService_HandleRegistration(t *testing.T) {
	identityID := "identity-123"
	email := "User@Example.com"

	testCases := []struct {
		name        string
		identityID  string
		email       string
		setupMocks  func(*MockStorageInterface, *MockLoggerInterface)
		expectedErr bool
	}{
		{
			name:       "success - tenant matched on domain",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().GetIdentityByID(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetTenantByDomain(gomock.Any(), "example.com").Return(&types.Tenant{ID: "tenant-1"}, nil)
				mockStorage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) {
						if i.TenantID != "tenant-1" || i.Status != types.IdentityPending || i.Email != "user@example.com" || i.DisplayName != "Jane Doe" {
							return nil, fmt.Errorf("unexpected identity %+v", i)
						}
						return i, nil
					})
				mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any())
			},
		},
		{
			name:       "success - no tenant for domain",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().GetIdentityByID(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetTenantByDomain(gomock.Any(), "example.com").Return(nil, storage.ErrNotFound)
				mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) {
						if i.TenantID != "" {
							return nil, errors.New("identity should be unassigned")
						}
						return i, nil
					})
				mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any(), gomock.Any())
			},
		},
		{
			name:       "success - already registered",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().GetIdentityByID(gomock.Any(), identityID).Return(&types.Identity{ID: identityID}, nil)
			},
		},
		{
			name:       "success - concurrent duplicate",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().GetIdentityByID(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().GetTenantByDomain(gomock.Any(), "example.com").Return(&types.Tenant{ID: "tenant-1"}, nil)
				mockStorage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("identity already exists: %w", storage.ErrDuplicateKey))
			},
		},
		{
			name:       "failure - empty email",
			identityID: identityID,
			email:      "",
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
			},
			expectedErr: true,
		},
		{
			name:       "failure - storage error",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface, mockLogger *MockLoggerInterface) {
				mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any())
				mockStorage.EXPECT().GetIdentityByID(gomock.Any(), identityID).Return(nil, errors.New("db error"))
			},
			expectedErr: true,
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

			s := NewService(mockStorage, mockTracer, mockMonitor, mockLogger)

			mockTracer.EXPECT().Start(gomock.Any(), "webhooks.Service.HandleRegistration").Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockStorage, mockLogger)

			err := s.HandleRegistration(context.Background(), tc.identityID, tc.email, " Jane Doe ")

			if tc.expectedErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.expectedErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
