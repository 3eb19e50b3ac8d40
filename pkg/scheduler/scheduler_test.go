// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package scheduler -destination ./mock_scheduler.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package scheduler -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package scheduler -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package scheduler -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

// countingRunner blocks each cycle on release when it is set.
type countingRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (r *countingRunner) RunMonitoringCycle(ctx context.Context) (*types.CycleSummary, error) {
	n := r.calls.Add(1)

	if r.started != nil {
		select {
		case r.started <- struct{}{}:
		default:
		}
	}

	if r.release != nil {
		<-r.release
	}

	return &types.CycleSummary{Processed: int(n)}, nil
}

func newTestScheduler(runner CycleRunnerInterface, locker LockerInterface, interval time.Duration) *Scheduler {
	logger := logging.NewNoopLogger()
	return NewScheduler(runner, locker, interval, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("lead-access-service", logger), logger)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScheduler_StartTwiceKeepsOneLoop(t *testing.T) {
	runner := new(countingRunner)
	s := newTestScheduler(runner, nil, 10*time.Millisecond)

	if !s.Start() {
		t.Fatal("expected first start to change state")
	}
	if s.Start() {
		t.Fatal("expected second start to be a no-op")
	}

	if s.Status().State != "running" {
		t.Fatalf("expected running, got %s", s.Status().State)
	}

	waitFor(t, func() bool { return runner.calls.Load() >= 2 })

	if !s.Stop() {
		t.Fatal("expected stop to change state")
	}

	fired := runner.calls.Load()
	time.Sleep(60 * time.Millisecond)

	if runner.calls.Load() != fired {
		t.Fatalf("expected no fires after stop, got %d more", runner.calls.Load()-fired)
	}

	if s.Status().State != "stopped" {
		t.Fatalf("expected stopped, got %s", s.Status().State)
	}
}

func TestScheduler_StopWhenNeverStarted(t *testing.T) {
	s := newTestScheduler(new(countingRunner), nil, time.Hour)

	if s.Stop() {
		t.Fatal("expected stop to be a no-op")
	}
	if s.Stop() {
		t.Fatal("expected repeated stop to be a no-op")
	}
}

func TestScheduler_RestartAfterStop(t *testing.T) {
	runner := new(countingRunner)
	s := newTestScheduler(runner, nil, 10*time.Millisecond)

	s.Start()
	s.Stop()

	before := runner.calls.Load()

	if !s.Start() {
		t.Fatal("expected start after stop to change state")
	}
	defer s.Stop()

	waitFor(t, func() bool { return runner.calls.Load() > before })
}

func TestScheduler_StopLetsInFlightCycleFinish(t *testing.T) {
	runner := &countingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := newTestScheduler(runner, nil, 5*time.Millisecond)

	s.Start()

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("cycle never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned before the in-flight cycle finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(runner.release)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop never returned")
	}

	if run := s.Status().LastRun; run == nil || run.Err != "" {
		t.Fatalf("expected a completed run, got %+v", run)
	}
}

func TestScheduler_TickSkipsOverlappingCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := NewMockCycleRunnerInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)

	s := NewScheduler(mockRunner, nil, time.Hour, tracing.NewNoopTracer(), NewMockMonitorInterface(ctrl), mockLogger)

	mockLogger.EXPECT().Warnf(gomock.Any())

	s.cycleMu.Lock()
	s.tick()
	s.cycleMu.Unlock()
}

func TestScheduler_RunOnceYieldsIndependentRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := NewMockCycleRunnerInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	gomock.InOrder(
		mockRunner.EXPECT().RunMonitoringCycle(gomock.Any()).Return(&types.CycleSummary{Processed: 3, AlertsRaised: 1}, nil),
		mockRunner.EXPECT().RunMonitoringCycle(gomock.Any()).Return(&types.CycleSummary{Processed: 2, Errors: 1}, nil),
	)
	mockMonitor.EXPECT().SetCycleMetric(map[string]string{"outcome": "ok"}, gomock.Any()).Return(nil).Times(2)

	s := NewScheduler(mockRunner, nil, time.Hour, tracing.NewNoopTracer(), mockMonitor, logging.NewNoopLogger())

	first, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("expected distinct run ids")
	}

	if first.CycleSummary != (types.CycleSummary{Processed: 3, AlertsRaised: 1}) {
		t.Errorf("first run was altered: %+v", first.CycleSummary)
	}
	if second.CycleSummary != (types.CycleSummary{Processed: 2, Errors: 1}) {
		t.Errorf("second run merged with the first: %+v", second.CycleSummary)
	}

	if first.Trigger != TriggerManual || s.Status().LastRun != second {
		t.Errorf("unexpected status %+v", s.Status())
	}
}

func TestScheduler_RunOnceReportsFailedCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := NewMockCycleRunnerInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	mockRunner.EXPECT().RunMonitoringCycle(gomock.Any()).Return(nil, errors.New("db down"))
	mockMonitor.EXPECT().SetCycleMetric(map[string]string{"outcome": "error"}, gomock.Any()).Return(nil)

	s := NewScheduler(mockRunner, nil, time.Hour, tracing.NewNoopTracer(), mockMonitor, logging.NewNoopLogger())

	run, err := s.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if run == nil || run.Err != "db down" {
		t.Fatalf("expected the failed run to be reported, got %+v", run)
	}
}

func TestScheduler_Locker(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*MockLockerInterface, *MockCycleRunnerInterface, *MockMonitorInterface, *bool)
		expectedErr error
		expectRun   bool
	}{
		{
			name: "lock held elsewhere",
			setupMocks: func(l *MockLockerInterface, _ *MockCycleRunnerInterface, _ *MockMonitorInterface, _ *bool) {
				l.EXPECT().Acquire(gomock.Any()).Return(nil, false, nil)
			},
			expectedErr: ErrCycleLocked,
		},
		{
			name: "lock acquired and released",
			setupMocks: func(l *MockLockerInterface, r *MockCycleRunnerInterface, m *MockMonitorInterface, released *bool) {
				l.EXPECT().Acquire(gomock.Any()).Return(func(context.Context) { *released = true }, true, nil)
				r.EXPECT().RunMonitoringCycle(gomock.Any()).Return(&types.CycleSummary{}, nil)
				m.EXPECT().SetCycleMetric(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectRun: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLocker := NewMockLockerInterface(ctrl)
			mockRunner := NewMockCycleRunnerInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)

			released := false
			tt.setupMocks(mockLocker, mockRunner, mockMonitor, &released)

			s := NewScheduler(mockRunner, mockLocker, time.Hour, tracing.NewNoopTracer(), mockMonitor, logging.NewNoopLogger())

			run, err := s.RunOnce(context.Background())

			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected %v, got %v", tt.expectedErr, err)
			}

			if tt.expectRun != (run != nil) {
				t.Fatalf("unexpected run %+v", run)
			}

			if tt.expectRun && !released {
				t.Error("expected lock to be released")
			}
		})
	}
}
