// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/version"
)

const pingTimeout = 2 * time.Second

type Status struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type API struct {
	dependencies map[string]PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/ready", a.ready)
	mux.Get("/api/v0/version", a.version)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusOK, Status{Status: "ok", Version: version.Version})
}

func (a *API) version(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusOK, map[string]string{"version": version.Version})
}

// ready pings every registered dependency, one failure turns it 503.
func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	s := Status{Status: "ok", Version: version.Version, Dependencies: make(map[string]string)}
	code := http.StatusOK

	names := make([]string, 0, len(a.dependencies))
	for name := range a.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := a.dependencies[name].Ping(pctx)
		cancel()

		available := 1.0
		s.Dependencies[name] = "ok"

		if err != nil {
			a.logger.Errorf("dependency %s unavailable: %v", name, err)
			available = 0
			s.Dependencies[name] = "unavailable"
			s.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if mErr := a.monitor.SetDependencyAvailability(map[string]string{"component": name}, available); mErr != nil {
			a.logger.Debugf("failed to set %s availability: %v", name, mErr)
		}
	}

	write(w, code, s)
}

func write(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// WithDependency registers a dependency checked by the readiness endpoint.
func (a *API) WithDependency(name string, p PingerInterface) *API {
	a.dependencies[name] = p
	return a
}

func NewAPI(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.dependencies = make(map[string]PingerInterface)

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
