// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package scheduler owns the single background loop firing monitoring
// cycles, independent of request traffic.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// ErrCycleLocked is returned when another instance holds the cycle lock.
var ErrCycleLocked = errors.New("monitoring cycle locked by another instance")

var _ SchedulerInterface = (*Scheduler)(nil)

type Status struct {
	State    string          `json:"state"`
	Interval string          `json:"interval"`
	LastRun  *types.CycleRun `json:"lastRun,omitempty"`
}

// loop is one incarnation of the ticker goroutine.
type loop struct {
	stop chan struct{}
	done chan struct{}
}

type Scheduler struct {
	runner   CycleRunnerInterface
	locker   LockerInterface
	interval time.Duration

	state atomic.Int32

	// mu serializes lifecycle transitions, cycleMu serializes cycles
	mu      sync.Mutex
	cycleMu sync.Mutex
	loop    *loop

	lastRun atomic.Pointer[types.CycleRun]
	now     func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Start launches the loop. It reports false, and does nothing, when the
// scheduler is already running.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		s.logger.Debugf("scheduler already running")
		return false
	}

	l := &loop{stop: make(chan struct{}), done: make(chan struct{})}
	s.loop = l

	go s.run(l)

	s.logger.Infof("scheduler started, firing every %s", s.interval)

	return true
}

// Stop halts future ticks and waits for an in-flight cycle to finish.
// Stopping a scheduler that is not running is a no-op.
func (s *Scheduler) Stop() bool {
	s.mu.Lock()

	if !s.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		s.mu.Unlock()
		return false
	}

	l := s.loop
	s.loop = nil
	close(l.stop)

	s.mu.Unlock()

	<-l.done

	s.logger.Infof("scheduler stopped")

	return true
}

// RunOnce runs a cycle now, waiting for an in-flight one to finish first.
// Every call yields its own CycleRun.
func (s *Scheduler) RunOnce(ctx context.Context) (*types.CycleRun, error) {
	ctx, span := s.tracer.Start(ctx, "scheduler.Scheduler.RunOnce")
	defer span.End()

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	return s.cycle(ctx, TriggerManual)
}

func (s *Scheduler) Status() *Status {
	return &Status{
		State:    State(s.state.Load()).String(),
		Interval: s.interval.String(),
		LastRun:  s.lastRun.Load(),
	}
}

func (s *Scheduler) run(l *loop) {
	defer close(l.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick skips, rather than queues, when the previous cycle still runs.
func (s *Scheduler) tick() {
	if !s.cycleMu.TryLock() {
		s.logger.Warnf("previous monitoring cycle still running, skipping tick")
		return
	}
	defer s.cycleMu.Unlock()

	ctx, span := s.tracer.Start(context.Background(), "scheduler.Scheduler.tick")
	defer span.End()

	if _, err := s.cycle(ctx, TriggerSchedule); err != nil && !errors.Is(err, ErrCycleLocked) {
		s.logger.Errorf("scheduled monitoring cycle failed: %v", err)
	}
}

// cycle must be called with cycleMu held.
func (s *Scheduler) cycle(ctx context.Context, trigger string) (*types.CycleRun, error) {
	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire cycle lock: %w", err)
		}

		if !ok {
			s.logger.Infof("monitoring cycle running on another instance, skipping")
			return nil, ErrCycleLocked
		}

		defer release(context.WithoutCancel(ctx))
	}

	run := &types.CycleRun{ID: newRunID(), StartedAt: s.now(), Trigger: trigger}

	summary, err := s.runner.RunMonitoringCycle(ctx)

	run.FinishedAt = s.now()
	outcome := "ok"

	if err != nil {
		run.Err = err.Error()
		outcome = "error"
	} else {
		run.CycleSummary = *summary
	}

	if mErr := s.monitor.SetCycleMetric(map[string]string{"outcome": outcome}, run.FinishedAt.Sub(run.StartedAt).Seconds()); mErr != nil {
		s.logger.Debugf("failed to record cycle metric: %v", mErr)
	}

	s.lastRun.Store(run)

	return run, err
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithClock overrides the time source stamping cycle runs.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// NewScheduler returns a stopped scheduler. locker may be nil on single
// instance deployments.
func NewScheduler(
	runner CycleRunnerInterface,
	locker LockerInterface,
	interval time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Scheduler {
	s := new(Scheduler)

	s.runner = runner
	s.locker = locker
	s.interval = interval
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
