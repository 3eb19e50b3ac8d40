// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package visibility

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

// Predicate is the SQL rendering handed to the business data layer.
type Predicate struct {
	SQL  string        `json:"sql"`
	Args []interface{} `json:"args"`
}

type FilterResponse struct {
	Resource     types.Resource `json:"resource"`
	Filter       *Filter        `json:"filter"`
	Predicate    Predicate      `json:"predicate"`
	VisibleCount int64          `json:"visibleCount"`
}

type API struct {
	engine  EngineInterface
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Get("/visibility/{resource}", a.handleFilter)
}

func (a *API) handleFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := tenant.GetScope(ctx)
	if !ok {
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.Unauthenticated, "no request scope"))
		return
	}

	resource := types.Resource(chi.URLParam(r, "resource"))

	filter, err := a.engine.Build(ctx, scope, resource)
	if err != nil {
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	sql, args, err := filter.ToSql()
	if err != nil {
		httpTypes.WriteError(w, a.logger, apierror.Wrap(apierror.Internal, "failed to render filter", err))
		return
	}

	count, err := a.storage.CountVisible(ctx, resource, filter)
	if err != nil {
		httpTypes.WriteError(w, a.logger, apierror.Wrap(apierror.Internal, "failed to count visible rows", err))
		return
	}

	if args == nil {
		args = []interface{}{}
	}

	httpTypes.WriteJSON(w, http.StatusOK, FilterResponse{
		Resource:     resource,
		Filter:       filter,
		Predicate:    Predicate{SQL: sql, Args: args},
		VisibleCount: count,
	})
}

func NewAPI(
	engine EngineInterface,
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.engine = engine
	a.storage = storage

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
