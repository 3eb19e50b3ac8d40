// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"net/http"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
)

// ErrorResponse is the payload of every failed API call.
type ErrorResponse struct {
	ErrorCode string         `json:"errorCode"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// Response wraps successful payloads.
type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`
}

// HTTPStatus maps an error code onto its HTTP status.
func HTTPStatus(code apierror.Code) int {
	switch code {
	case apierror.Unauthenticated, apierror.InvalidCredential, apierror.IdentityNotFound:
		return http.StatusUnauthorized
	case apierror.IdentityInactive,
		apierror.NoTenantAssigned,
		apierror.TenantInactive,
		apierror.CrossTenantViolation,
		apierror.OutsideTeam,
		apierror.OutsideTerminal,
		apierror.InsufficientRole:
		return http.StatusForbidden
	case apierror.TargetNotFound, apierror.TenantNotFound:
		return http.StatusNotFound
	case apierror.LeadQuotaExceeded, apierror.CustomerLimitReached, apierror.UserLimitReached, apierror.RateLimited:
		return http.StatusTooManyRequests
	case apierror.InvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an ErrorResponse. Errors outside the taxonomy
// are logged and reported as Internal without their cause.
func WriteError(w http.ResponseWriter, logger logging.LoggerInterface, err error) {
	e, ok := apierror.As(err)
	if !ok {
		logger.Errorf("unexpected error: %v", err)
		e = apierror.New(apierror.Internal, "internal server error")
	} else if e.Code == apierror.Internal {
		logger.Errorf("internal error: %v", err)
	}

	writeJSON(
		w,
		HTTPStatus(e.Code),
		ErrorResponse{ErrorCode: string(e.Code), Message: e.Message, Details: e.Details},
	)
}

// WriteJSON renders data wrapped in a Response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data, Status: status})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
