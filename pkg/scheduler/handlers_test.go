// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/db"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

func TestAPI_Endpoints(t *testing.T) {
	running := &Status{State: "running", Interval: "1h0m0s"}

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func(*MockSchedulerInterface, *MockSecurityLoggerInterface)
		expectedStatus int
		expectedCode   string
		audited        string
	}{
		{
			name:   "status",
			method: http.MethodGet,
			path:   "/scheduler",
			setupMocks: func(s *MockSchedulerInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().Status().Return(running)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "start",
			method: http.MethodPost,
			path:   "/scheduler/start",
			setupMocks: func(s *MockSchedulerInterface, sec *MockSecurityLoggerInterface) {
				s.EXPECT().Start().Return(true)
				s.EXPECT().Status().Return(running)
				sec.EXPECT().AdminAction("root", "scheduler_start", "scheduler")
			},
			expectedStatus: http.StatusOK,
			audited:        "scheduler.start",
		},
		{
			name:   "stop when stopped",
			method: http.MethodPost,
			path:   "/scheduler/stop",
			setupMocks: func(s *MockSchedulerInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().Stop().Return(false)
				s.EXPECT().Status().Return(&Status{State: "stopped", Interval: "1h0m0s"})
			},
			expectedStatus: http.StatusOK,
			audited:        "scheduler.stop",
		},
		{
			name:   "run",
			method: http.MethodPost,
			path:   "/scheduler/run",
			setupMocks: func(s *MockSchedulerInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().RunOnce(gomock.Any()).Return(&types.CycleRun{ID: "r1", Trigger: TriggerManual}, nil)
			},
			expectedStatus: http.StatusOK,
			audited:        "scheduler.run",
		},
		{
			name:   "run with failing cycle",
			method: http.MethodPost,
			path:   "/scheduler/run",
			setupMocks: func(s *MockSchedulerInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().RunOnce(gomock.Any()).Return(&types.CycleRun{ID: "r2", Err: "db down"}, errors.New("db down"))
			},
			expectedStatus: http.StatusOK,
			audited:        "scheduler.run",
		},
		{
			name:   "run locked by another instance",
			method: http.MethodPost,
			path:   "/scheduler/run",
			setupMocks: func(s *MockSchedulerInterface, _ *MockSecurityLoggerInterface) {
				s.EXPECT().RunOnce(gomock.Any()).Return(nil, ErrCycleLocked)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(apierror.InvalidRequest),
			audited:        "scheduler.run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockScheduler := NewMockSchedulerInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)
			mockSecurity := NewMockSecurityLoggerInterface(ctrl)

			mockLogger.EXPECT().Security().Return(mockSecurity).AnyTimes()
			tt.setupMocks(mockScheduler, mockSecurity)

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
			NewAPI(mockScheduler, audit, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), mockLogger).RegisterEndpoints(router)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(authentication.WithUserID(req.Context(), "root"))
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

// requestTx stands for the transaction opened around a mutating request.
type requestTx struct {
	db.TxInterface
}

func TestAPI_RunOutsideRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockScheduler := NewMockSchedulerInterface(ctrl)

	var runCtx context.Context
	mockScheduler.EXPECT().RunOnce(gomock.Any()).DoAndReturn(func(ctx context.Context) (*types.CycleRun, error) {
		runCtx = ctx
		return &types.CycleRun{ID: "r1", Trigger: TriggerManual}, nil
	})

	router := chi.NewRouter()
	NewAPI(mockScheduler, nil, NewMockTracingInterface(ctrl), NewMockMonitorInterface(ctrl), NewMockLoggerInterface(ctrl)).RegisterEndpoints(router)

	ctx, cancel := context.WithCancel(db.ContextWithTx(context.Background(), requestTx{}))
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/scheduler/run", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	if db.TxFromContext(runCtx) != nil {
		t.Error("manual run still carries the request transaction")
	}

	if runCtx.Err() != nil {
		t.Errorf("manual run inherited the request cancellation: %v", runCtx.Err())
	}
}
