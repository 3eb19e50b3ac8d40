// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_audit.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestRecorder_Persist(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		setupMocks func(*MockLoggerInterface)
	}{
		{
			name:       "persisted",
			setupMocks: func(*MockLoggerInterface) {},
		},
		{
			name:       "missing audit table is silent",
			storeErr:   fmt.Errorf("audit_logs: %w", storage.ErrStoreAbsent),
			setupMocks: func(*MockLoggerInterface) {},
		},
		{
			name:     "other failures are logged",
			storeErr: errors.New("connection refused"),
			setupMocks: func(l *MockLoggerInterface) {
				l.EXPECT().Errorf(gomock.Any(), gomock.Any())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			entry := &types.AuditEntry{IdentityID: "U1", Action: "tenant.create", StatusCode: 201}

			mockTracer.EXPECT().Start(gomock.Any(), "audit.Recorder.persist").Return(context.Background(), trace.SpanFromContext(context.Background()))
			mockStorage.EXPECT().CreateAuditLog(gomock.Any(), entry).Return(tt.storeErr)
			tt.setupMocks(mockLogger)

			r := NewRecorder(mockStorage, 8, mockTracer, NewMockMonitorInterface(ctrl), mockLogger)
			r.Start()
			r.Record(entry)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := r.Close(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecorder_RecordNeverBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).Times(2)

	// not started, so the single slot stays taken
	r := NewRecorder(NewMockStorageInterface(ctrl), 1, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), mockLogger)

	done := make(chan struct{})
	go func() {
		r.Record(&types.AuditEntry{Action: "a"})
		r.Record(&types.AuditEntry{Action: "b"})
		r.Record(&types.AuditEntry{Action: "c"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}
}

func TestRecorder_CloseDrainsAndRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).Return(context.Background(), trace.SpanFromContext(context.Background())).Times(3)
	mockStorage.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any())

	r := NewRecorder(mockStorage, 8, mockTracer, NewMockMonitorInterface(ctrl), mockLogger)

	for i := 0; i < 3; i++ {
		r.Record(&types.AuditEntry{Action: "usage.record"})
	}

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Record(&types.AuditEntry{Action: "late"})

	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("expected repeated close to succeed, got %v", err)
	}
}
