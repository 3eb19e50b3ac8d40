// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"net/http"
	"strings"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

const (
	ScopeHeader     = "X-Tenant-Scope"
	ScopeQueryParam = "tenant_id"
)

type Middleware struct {
	resolver ResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Scope resolves the tenant scope of the authenticated caller. It must be
// mounted after authentication and before any tenant scoped handler.
func (m *Middleware) Scope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "tenant.Middleware.Scope")
			defer span.End()

			identity, ok := authentication.GetIdentity(ctx)
			if !ok {
				httpTypes.WriteError(w, m.logger, apierror.New(apierror.Unauthenticated, "no authenticated identity"))
				return
			}

			scope, err := m.resolver.Resolve(ctx, identity, override(r))
			if err != nil {
				httpTypes.WriteError(w, m.logger, err)
				return
			}

			if scope.Impersonating {
				m.logger.Security().TenantImpersonation(identity.ID, scope.TenantID(), r.URL.Path)
			}

			next.ServeHTTP(w, r.WithContext(WithScope(ctx, scope)))
		})
	}
}

// header wins over the query parameter
func override(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(ScopeHeader)); v != "" {
		return v
	}

	return strings.TrimSpace(r.URL.Query().Get(ScopeQueryParam))
}

func NewMiddleware(resolver ResolverInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		resolver: resolver,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
