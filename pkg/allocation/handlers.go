// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package allocation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

type API struct {
	authorizer AuthorizerInterface
	audit      httpTypes.AuditFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.With(a.audit("allocation.authorize")).Post("/allocations/authorize", a.handleAuthorize)
}

func (a *API) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	req := new(AuthorizeRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	decision, err := a.authorizer.Authorize(r.Context(), scope, req.TargetIdentityID)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	decision.ResourceID = req.ResourceID

	httpTypes.WriteJSON(w, http.StatusOK, decision)
}

func NewAPI(
	authorizer AuthorizerInterface,
	audit httpTypes.AuditFunc,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.authorizer = authorizer
	a.audit = audit
	if a.audit == nil {
		a.audit = httpTypes.NoAudit
	}

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
