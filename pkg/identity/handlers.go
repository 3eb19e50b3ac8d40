// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

type API struct {
	service ServiceInterface
	audit   httpTypes.AuditFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.With(a.audit("identity.provision")).Post("/identities", a.handleProvision)
	r.With(a.audit("identity.status")).Patch("/identities/{id}/status", a.handleStatus)
}

func (a *API) handleProvision(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	req := new(ProvisionRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	result, err := a.service.ProvisionIdentity(r.Context(), scope, req)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusCreated, result)
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	req := new(StatusRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := a.service.SetIdentityStatus(r.Context(), scope, id, types.IdentityStatus(req.Status)); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

func NewAPI(
	service ServiceInterface,
	audit httpTypes.AuditFunc,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.audit = audit
	if a.audit == nil {
		a.audit = httpTypes.NoAudit
	}

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
