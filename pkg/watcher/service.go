// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package watcher runs the monitoring cycle over monitored customers and
// raises alerts on observed changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage   StorageInterface
	tx        TransactorInterface
	collector CollectorInterface
	usage     UsageInterface

	threshold float64
	now       func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// RunMonitoringCycle processes every monitored customer once. A failing
// customer is counted in the summary and skipped; only a failure to list
// customers fails the whole cycle.
func (s *Service) RunMonitoringCycle(ctx context.Context) (*types.CycleSummary, error) {
	ctx, span := s.tracer.Start(ctx, "watcher.Service.RunMonitoringCycle")
	defer span.End()

	customers, err := s.storage.ListMonitoredCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitored customers: %w", err)
	}

	summary := new(types.CycleSummary)

	for _, c := range customers {
		if ctx.Err() != nil {
			s.logger.Warnf("monitoring cycle interrupted after %d of %d customers", summary.Processed+summary.Errors, len(customers))
			break
		}

		alerts, err := s.process(ctx, c)
		summary.AlertsRaised += alerts

		if err != nil {
			s.logger.Errorf("failed to monitor customer %s of tenant %s: %v", c.ID, c.TenantID, err)
			summary.Errors++
			continue
		}

		summary.Processed++
	}

	s.logger.Infof("monitoring cycle done: %d processed, %d alerts, %d errors", summary.Processed, summary.AlertsRaised, summary.Errors)

	return summary, nil
}

func (s *Service) process(ctx context.Context, c *types.MonitoredCustomer) (int, error) {
	state, err := s.collector.FetchState(ctx, c.ID)
	if err != nil {
		return 0, err
	}

	s.usage.RecordUsage(ctx, c.TenantID, types.UsageMonitoringChecks)

	// alerts and the new baseline land together, a failed customer is
	// observed again from the old baseline on the next cycle
	raised := 0
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		prev, err := s.storage.GetLatestSnapshot(ctx, c.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		n := 0

		// the first observation only sets the baseline
		if prev != nil {
			for _, a := range diff(&prev.State, state, s.threshold) {
				a.TenantID = c.TenantID
				a.CustomerID = c.ID

				if err := s.storage.CreateAlert(ctx, &a); err != nil {
					return fmt.Errorf("failed to store %s alert on %s: %w", a.Kind, a.Subject, err)
				}
				n++
			}
		}

		if err := s.storage.SaveSnapshot(ctx, &types.Snapshot{CustomerID: c.ID, State: *state, CapturedAt: s.now()}); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		raised = n
		return nil
	})

	return raised, err
}

// WithClock overrides the time source used to stamp snapshots.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func NewService(
	storage StorageInterface,
	tx TransactorInterface,
	collector CollectorInterface,
	usage UsageInterface,
	threshold float64,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.tx = tx
	s.collector = collector
	s.usage = usage

	s.threshold = threshold
	s.now = time.Now

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
