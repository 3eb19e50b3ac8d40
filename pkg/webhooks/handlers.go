// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
)

type API struct {
	service ServiceInterface
	logger  logging.LoggerInterface
}

// RegisterEndpoints mounts the identity provider hooks, they run before the
// caller has an active identity so they are never behind authentication.
func (a *API) RegisterEndpoints(r chi.Router) {
	r.Post("/webhooks/registration", a.handleRegistration)
}

func (a *API) handleRegistration(w http.ResponseWriter, r *http.Request) {
	payload := new(RegistrationPayload)
	if err := httpTypes.DecodeJSON(r, payload); err != nil {
		a.logger.Debugf("rejected registration payload: %v", err)
		httpTypes.WriteError(w, a.logger, err)
		return
	}

	if err := a.service.HandleRegistration(r.Context(), payload.ID, payload.Traits.Email, payload.Traits.Name); err != nil {
		httpTypes.WriteError(w, a.logger, apierror.Wrap(apierror.Internal, "registration failed", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func NewAPI(service ServiceInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.logger = logger

	return a
}
