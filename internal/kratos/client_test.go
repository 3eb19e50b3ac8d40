// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

type availabilityMonitor struct {
	monitoring.MonitorInterface

	mu     sync.Mutex
	values []float64
}

func (m *availabilityMonitor) SetDependencyAvailability(_ map[string]string, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = append(m.values, v)
	return nil
}

func (m *availabilityMonitor) last() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[len(m.values)-1]
}

func identityJSON(id, email string) map[string]any {
	return map[string]any{
		"id":         id,
		"schema_id":  "default",
		"schema_url": "http://kratos/schemas/default",
		"state":      "active",
		"traits":     map[string]any{"email": email},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *availabilityMonitor) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logging.NewNoopLogger()
	monitor := &availabilityMonitor{MonitorInterface: monitoring.NewNoopMonitor("lead-access-service", logger)}

	return NewClient(srv.URL, tracing.NewNoopTracer(), monitor, logger), monitor
}

func TestGetIdentityIDByEmail(t *testing.T) {
	testCases := []struct {
		name       string
		identities []map[string]any
		expectedID string
	}{
		{name: "found", identities: []map[string]any{identityJSON("k-1", "ann@example.com")}, expectedID: "k-1"},
		{name: "not found", identities: []map[string]any{}, expectedID: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, monitor := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/admin/identities" {
					t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
				}
				if got := r.URL.Query().Get("credentials_identifier"); got != "ann@example.com" {
					t.Errorf("unexpected identifier %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(tc.identities)
			})

			id, err := c.GetIdentityIDByEmail(context.Background(), "ann@example.com")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if id != tc.expectedID {
				t.Errorf("expected %q, got %q", tc.expectedID, id)
			}

			if monitor.last() != 1 {
				t.Errorf("expected kratos to be reported available")
			}
		})
	}
}

func TestCreateIdentity(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/identities" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"email":"bob@example.com"`) || !strings.Contains(string(body), `"name":"Bob"`) {
			t.Errorf("unexpected body %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(identityJSON("k-2", "bob@example.com"))
	})

	id, err := c.CreateIdentity(context.Background(), "bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "k-2" {
		t.Errorf("expected k-2, got %q", id)
	}
}

func TestSetIdentityState(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/admin/identities/k-3" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}

		var patch []map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		if len(patch) != 1 || patch[0]["path"] != "/state" || patch[0]["value"] != "inactive" {
			t.Errorf("unexpected patch %v", patch)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identityJSON("k-3", "cy@example.com"))
	})

	if err := c.SetIdentityState(context.Background(), "k-3", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServerErrorMarksUnavailable(t *testing.T) {
	c, monitor := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := c.GetIdentityIDByEmail(context.Background(), "ann@example.com"); err == nil {
		t.Fatal("expected error")
	}

	if monitor.last() != 0 {
		t.Errorf("expected kratos to be reported unavailable")
	}
}
