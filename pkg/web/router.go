// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/lead-access-service/internal/authorization"
	"github.com/canonical/lead-access-service/internal/db"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/allocation"
	"github.com/canonical/lead-access-service/pkg/audit"
	"github.com/canonical/lead-access-service/pkg/authentication"
	"github.com/canonical/lead-access-service/pkg/identity"
	"github.com/canonical/lead-access-service/pkg/metrics"
	"github.com/canonical/lead-access-service/pkg/quota"
	"github.com/canonical/lead-access-service/pkg/ratelimit"
	"github.com/canonical/lead-access-service/pkg/scheduler"
	"github.com/canonical/lead-access-service/pkg/status"
	"github.com/canonical/lead-access-service/pkg/tenant"
	"github.com/canonical/lead-access-service/pkg/visibility"
	"github.com/canonical/lead-access-service/pkg/webhooks"
)

const apiPrefix = "/api/v0"

// Dependencies holds the domain components the router exposes over HTTP.
// Audit and RateLimiter are optional.
type Dependencies struct {
	Verifier         authentication.TokenVerifierInterface
	IdentityResolver authentication.IdentityResolverInterface
	TenantResolver   tenant.ResolverInterface

	Tenants           tenant.ServiceInterface
	Identities        identity.ServiceInterface
	Visibility        visibility.EngineInterface
	VisibilityStorage visibility.StorageInterface
	Quota             quota.LedgerInterface
	Allocation        allocation.AuthorizerInterface
	Scheduler         scheduler.SchedulerInterface
	Webhooks          webhooks.ServiceInterface

	Audit       audit.MiddlewareInterface
	RateLimiter *ratelimit.Limiter

	// Dependencies probed by the readiness endpoint, keyed by name.
	Probes map[string]status.PingerInterface

	CORSOrigins []string
}

func NewRouter(
	deps *Dependencies,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		middleware.Recoverer,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(origins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)

	statusAPI := status.NewAPI(tracer, monitor, logger)
	for name, probe := range deps.Probes {
		statusAPI.WithDependency(name, probe)
	}
	statusAPI.RegisterEndpoints(router)

	var auditFunc httpTypes.AuditFunc
	if deps.Audit != nil {
		auditFunc = deps.Audit.Audit
	}

	authn := authentication.NewMiddleware(deps.Verifier, deps.IdentityResolver, tracer, monitor, logger)
	scope := tenant.NewMiddleware(deps.TenantResolver, tracer, monitor, logger)
	authz := authorization.NewAuthorizer(authentication.GetIdentity, tracer, monitor, logger)

	tenantAPI := tenant.NewAPI(deps.Tenants, auditFunc, tracer, monitor, logger)

	router.Route(apiPrefix, func(r chi.Router) {
		webhooks.NewAPI(deps.Webhooks, logger).RegisterEndpoints(r)

		r.Group(func(r chi.Router) {
			// rejected mutations are audited as well, so the trail goes first
			if deps.Audit != nil {
				r.Use(deps.Audit.Trail(), authn.Authenticate(), deps.Audit.Attribute(), scope.Scope(), deps.Audit.Attribute())
			} else {
				r.Use(authn.Authenticate(), scope.Scope())
			}
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware())
			}
			r.Use(db.TransactionMiddleware(dbClient, logger))

			tenantAPI.RegisterScopeEndpoints(r)
			visibility.NewAPI(deps.Visibility, deps.VisibilityStorage, tracer, monitor, logger).RegisterEndpoints(r)
			quota.NewAPI(deps.Quota, auditFunc, tracer, monitor, logger).RegisterEndpoints(r)
			allocation.NewAPI(deps.Allocation, auditFunc, tracer, monitor, logger).RegisterEndpoints(r)

			r.Group(func(r chi.Router) {
				r.Use(authz.RequireRole(types.RoleTenantAdmin))
				identity.NewAPI(deps.Identities, auditFunc, tracer, monitor, logger).RegisterEndpoints(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(authz.RequireRole(types.RoleSuperAdmin))
				tenantAPI.RegisterEndpoints(r)
				scheduler.NewAPI(deps.Scheduler, auditFunc, tracer, monitor, logger).RegisterEndpoints(r)
			})
		})
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
