// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
)

// probe endpoints are hit every few seconds and carry no useful trace
var untracedPaths = []string{
	"/api/v0/status",
	"/api/v0/ready",
	"/api/v0/metrics",
}

type Middleware struct {
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// OpenTelemetry wraps handler so every request outside the probe endpoints
// opens a server span named after its method and path.
func (mdw *Middleware) OpenTelemetry(handler http.Handler) http.Handler {
	return otelhttp.NewHandler(
		handler,
		mdw.monitor.GetService(),
		otelhttp.WithFilter(traced),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func traced(r *http.Request) bool {
	for _, p := range untracedPaths {
		if strings.HasPrefix(r.URL.Path, p) {
			return false
		}
	}
	return true
}

func NewMiddleware(monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	mdw := new(Middleware)

	mdw.monitor = monitor
	mdw.logger = logger

	return mdw
}
