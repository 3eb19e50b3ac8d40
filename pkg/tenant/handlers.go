// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

type API struct {
	service ServiceInterface
	audit   httpTypes.AuditFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// RegisterEndpoints mounts the tenant administration routes, the caller is
// responsible for restricting r to super admins.
func (a *API) RegisterEndpoints(r chi.Router) {
	r.Get("/tenants", a.handleList)
	r.Get("/tenants/{id}", a.handleGet)
	r.With(a.audit("tenant.create")).Post("/tenants", a.handleCreate)
	r.With(a.audit("tenant.update")).Patch("/tenants/{id}", a.handleUpdate)
	r.With(a.audit("tenant.status")).Patch("/tenants/{id}/status", a.handleStatus)
}

// RegisterScopeEndpoints mounts the routes available to any scoped caller.
func (a *API) RegisterScopeEndpoints(r chi.Router) {
	r.Get("/me", a.handleMe)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	scope, ok := GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, scope)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	page, size := httpTypes.Pagination(r)

	tenants, err := a.service.ListTenants(r.Context(), page, size)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	if tenants == nil {
		tenants = []*types.Tenant{}
	}

	httpTypes.WriteJSON(w, http.StatusOK, tenants)
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := a.service.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, t)
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := new(CreateTenantRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	t, err := a.service.CreateTenant(r.Context(), req)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusCreated, t)
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req := new(UpdateTenantRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	t, err := a.service.UpdateTenant(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, t)
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	req := new(TenantStatusRequest)
	if err := httpTypes.DecodeJSON(r, req); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := a.service.SetTenantStatus(r.Context(), id, *req.Active); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "isActive": *req.Active})
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
