// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scheduler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/db"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/pkg/authentication"
)

type TransitionResponse struct {
	Changed bool    `json:"changed"`
	Status  *Status `json:"status"`
}

type API struct {
	scheduler SchedulerInterface
	audit     httpTypes.AuditFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(r chi.Router) {
	r.Get("/scheduler", a.handleStatus)
	r.With(a.audit("scheduler.start")).Post("/scheduler/start", a.handleStart)
	r.With(a.audit("scheduler.stop")).Post("/scheduler/stop", a.handleStop)
	r.With(a.audit("scheduler.run")).Post("/scheduler/run", a.handleRun)
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	httpTypes.WriteJSON(w, http.StatusOK, a.scheduler.Status())
}

func (a *API) handleStart(w http.ResponseWriter, r *http.Request) {
	changed := a.scheduler.Start()
	if changed {
		actor, _ := authentication.GetUserID(r.Context())
		a.logger.Security().AdminAction(actor, "scheduler_start", "scheduler")
	}

	httpTypes.WriteJSON(w, http.StatusOK, TransitionResponse{Changed: changed, Status: a.scheduler.Status()})
}

func (a *API) handleStop(w http.ResponseWriter, r *http.Request) {
	changed := a.scheduler.Stop()
	if changed {
		actor, _ := authentication.GetUserID(r.Context())
		a.logger.Security().AdminAction(actor, "scheduler_stop", "scheduler")
	}

	httpTypes.WriteJSON(w, http.StatusOK, TransitionResponse{Changed: changed, Status: a.scheduler.Status()})
}

// handleRun keeps the cycle going when the client goes away. The cycle
// writes outside the request transaction, the same way a scheduled tick does.
func (a *API) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := a.scheduler.RunOnce(db.Detach(context.WithoutCancel(r.Context())))

	switch {
	case errors.Is(err, ErrCycleLocked):
		httpTypes.WriteError(w, a.logger, apierror.New(apierror.InvalidRequest, "a monitoring cycle is running on another instance"))
	case run == nil && err != nil:
		httpTypes.WriteError(w, a.logger, apierror.Wrap(apierror.Internal, "failed to run monitoring cycle", err))
	default:
		// a failed cycle is still a run, reported with its error
		httpTypes.WriteJSON(w, http.StatusOK, run)
	}
}

func NewAPI(
	scheduler SchedulerInterface,
	audit httpTypes.AuditFunc,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.scheduler = scheduler
	a.audit = audit
	if a.audit == nil {
		a.audit = httpTypes.NoAudit
	}

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
