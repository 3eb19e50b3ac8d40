// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/lead-access-service/internal/apierror"
	"github.com/canonical/lead-access-service/internal/logging"
)

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectDetails  bool
	}{
		{
			name:           "unauthenticated",
			err:            apierror.New(apierror.Unauthenticated, "missing bearer token"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHENTICATED",
		},
		{
			name:           "tenant inactive",
			err:            apierror.New(apierror.TenantInactive, "tenant is inactive"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "TENANT_INACTIVE",
		},
		{
			name:           "target not found",
			err:            apierror.New(apierror.TargetNotFound, "target identity not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "TARGET_NOT_FOUND",
		},
		{
			name:           "quota with details",
			err:            apierror.Limit(apierror.CustomerLimitReached, "customer limit reached", 500, 500),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "CUSTOMER_LIMIT_REACHED",
			expectDetails:  true,
		},
		{
			name:           "invalid request",
			err:            apierror.New(apierror.InvalidRequest, "bad body"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "plain error is hidden",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteError(w, logging.NewNoopLogger(), tc.err)

			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d", tc.expectedStatus, w.Code)
			}

			var body ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}

			if body.ErrorCode != tc.expectedCode {
				t.Errorf("expected code %s, got %s", tc.expectedCode, body.ErrorCode)
			}

			if tc.expectedCode == "INTERNAL" && body.Message != "internal server error" {
				t.Errorf("cause leaked in message: %s", body.Message)
			}

			if tc.expectDetails && (body.Details["limit"] != float64(500) || body.Details["current"] != float64(500)) {
				t.Errorf("unexpected details %v", body.Details)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %s", ct)
	}

	var body struct {
		Data   map[string]string `json:"data"`
		Status int               `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.Data["id"] != "abc" || body.Status != http.StatusCreated {
		t.Fatalf("unexpected body %+v", body)
	}
}
