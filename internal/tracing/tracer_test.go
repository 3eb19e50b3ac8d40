// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"
	"testing"

	"github.com/canonical/lead-access-service/internal/logging"
)

func TestNewTracerDisabled(t *testing.T) {
	tracer := NewTracer(NewConfig(false, "", "", logging.NewNoopLogger()))

	ctx, span := tracer.Start(context.Background(), "tracing.Test")
	defer span.End()

	if ctx == nil {
		t.Fatal("expected a context")
	}

	if span.SpanContext().IsValid() {
		t.Error("noop tracer should not produce a valid span context")
	}
}

func TestConfigSampler(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected float64
	}{
		{ratio: 0, expected: 1},
		{ratio: -0.5, expected: 1},
		{ratio: 0.25, expected: 0.25},
		{ratio: 1, expected: 1},
		{ratio: 3, expected: 1},
	}

	for _, tt := range tests {
		cfg := NewConfig(true, "", "", logging.NewNoopLogger()).WithSampleRatio(tt.ratio)
		if got := cfg.sampler(); got != tt.expected {
			t.Errorf("ratio %v: expected %v, got %v", tt.ratio, tt.expected, got)
		}
	}
}
