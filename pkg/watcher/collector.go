// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package watcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

const (
	apiKeyHeader = "X-API-Key"
	statePath    = "/customers/{id}/state"
)

var _ CollectorInterface = (*Collector)(nil)

// Collector reads the current state of a customer from the external
// monitoring collector.
type Collector struct {
	client *resty.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Collector) FetchState(ctx context.Context, customerID string) (*types.CustomerState, error) {
	ctx, span := c.tracer.Start(ctx, "watcher.Collector.FetchState")
	defer span.End()

	state := new(types.CustomerState)

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", customerID).
		SetResult(state).
		Get(statePath)

	if err != nil {
		c.availability(0)
		return nil, fmt.Errorf("failed to call collector: %w", err)
	}

	c.availability(1)

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("collector returned %d for customer %s", resp.StatusCode(), customerID)
	}

	return state, nil
}

func (c *Collector) availability(v float64) {
	if err := c.monitor.SetDependencyAvailability(map[string]string{"component": "collector"}, v); err != nil {
		c.logger.Debugf("failed to set collector availability: %v", err)
	}
}

func NewCollector(
	baseURL, apiKey string,
	timeout time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Collector {
	c := new(Collector)

	c.client = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		c.client.SetHeader(apiKeyHeader, apiKey)
	}

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	return c
}
