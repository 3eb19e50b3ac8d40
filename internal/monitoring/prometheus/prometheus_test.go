// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"testing"

	"github.com/canonical/lead-access-service/internal/logging"
)

func TestMonitorSetters(t *testing.T) {
	m := NewMonitor("lead-access-service-test", logging.NewNoopLogger())

	if m.GetService() != "lead-access-service-test" {
		t.Fatalf("unexpected service %q", m.GetService())
	}

	if err := m.SetResponseTimeMetric(map[string]string{"route": "GET /api/v0/me", "status": "OK"}, 0.2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := m.SetDependencyAvailability(map[string]string{"component": "redis"}, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// missing labels are tolerated
	if err := m.SetCycleMetric(map[string]string{}, 12); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMonitorUninstantiated(t *testing.T) {
	m := new(Monitor)

	if err := m.SetResponseTimeMetric(nil, 1); err == nil {
		t.Error("expected error for missing histogram")
	}
	if err := m.SetDependencyAvailability(nil, 1); err == nil {
		t.Error("expected error for missing gauge")
	}
	if err := m.SetCycleMetric(nil, 1); err == nil {
		t.Error("expected error for missing histogram")
	}
}
