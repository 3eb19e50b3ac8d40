// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scheduler

import (
	"context"

	"github.com/canonical/lead-access-service/internal/types"
)

type SchedulerInterface interface {
	Start() bool
	Stop() bool
	RunOnce(ctx context.Context) (*types.CycleRun, error)
	Status() *Status
}

// CycleRunnerInterface is the monitoring collaborator fired on every tick.
type CycleRunnerInterface interface {
	RunMonitoringCycle(ctx context.Context) (*types.CycleSummary, error)
}

// LockerInterface guards a cycle across instances. The returned release
// func is nil when the lock was not acquired.
type LockerInterface interface {
	Acquire(ctx context.Context) (func(context.Context), bool, error)
}
