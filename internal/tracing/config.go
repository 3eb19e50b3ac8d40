// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"github.com/canonical/lead-access-service/internal/logging"
)

type Config struct {
	OtelHTTPEndpoint string
	OtelGRPCEndpoint string

	// SampleRatio is the share of root traces kept, child spans follow
	// their parent. Values outside (0, 1] keep everything.
	SampleRatio float64

	Logger logging.LoggerInterface

	Enabled bool
}

func NewConfig(enabled bool, otelGRPCEndpoint, otelHTTPEndpoint string, logger logging.LoggerInterface) *Config {
	c := new(Config)

	c.OtelGRPCEndpoint = otelGRPCEndpoint
	c.OtelHTTPEndpoint = otelHTTPEndpoint
	c.SampleRatio = 1
	c.Logger = logger
	c.Enabled = enabled

	return c
}

// WithSampleRatio overrides the default of sampling every trace.
func (c *Config) WithSampleRatio(ratio float64) *Config {
	c.SampleRatio = ratio
	return c
}

func (c *Config) sampler() float64 {
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		return 1
	}
	return c.SampleRatio
}
