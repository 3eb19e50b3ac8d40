// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package quota

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

type CheckResponse struct {
	Resource types.Resource `json:"resource"`
	TenantID string         `json:"tenantId,omitempty"`
	Allowed  bool           `json:"allowed"`
}

type API struct {
	ledger LedgerInterface
	audit  httpTypes.AuditFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.With(a.audit("quota.check")).Post("/quota/{resource}/check", a.handleCheck)
	r.With(a.audit("usage.record")).Post("/usage/{usageType}", a.handleRecord)
	r.Get("/usage", a.handleUsage)
}

func (a *API) handleCheck(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	resource := types.Resource(chi.URLParam(r, "resource"))

	if err := a.ledger.CheckAndReserve(r.Context(), scope, resource); err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, CheckResponse{Resource: resource, TenantID: scope.TenantID(), Allowed: true})
}

// handleRecord accepts the usage and returns before knowing whether the
// increment landed.
func (a *API) handleRecord(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	usage := types.UsageType(chi.URLParam(r, "usageType"))
	if _, ok := usage.Column(); !ok {
		httpTypes.WriteError(w, a.logger, apierror.Newf(apierror.InvalidRequest, "unknown usage type %q", usage))
		return
	}

	if scope.TenantID() == "" {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.InvalidRequest, "a tenant scope is required"))
		return
	}

	a.ledger.RecordUsage(r.Context(), scope.TenantID(), usage)

	httpTypes.WriteJSON(w, http.StatusAccepted, map[string]string{"tenantId": scope.TenantID(), "usageType": string(usage)})
}

func (a *API) handleUsage(w http.ResponseWriter, r *http.Request) {
	scope, ok := tenant.GetScope(r.Context())
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	entry, err := a.ledger.Usage(r.Context(), scope.TenantID())
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	httpTypes.WriteJSON(w, http.StatusOK, entry)
}

func NewAPI(
	ledger LedgerInterface,
	audit httpTypes.AuditFunc,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.ledger = ledger
	a.audit = audit
	if a.audit == nil {
		a.audit = httpTypes.NoAudit
	}

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
