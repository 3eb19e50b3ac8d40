// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canonical/lead-access-service/internal/apierror"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Limit int64  `json:"limit" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedCode  apierror.Code
		expectedField string
	}{
		{name: "valid", body: `{"name":"acme","limit":3}`},
		{name: "malformed", body: `{"name":`, expectedCode: apierror.InvalidRequest},
		{name: "unknown field", body: `{"name":"acme","extra":1}`, expectedCode: apierror.InvalidRequest},
		{name: "missing required", body: `{"limit":3}`, expectedCode: apierror.InvalidRequest, expectedField: "Name"},
		{name: "negative limit", body: `{"name":"acme","limit":-1}`, expectedCode: apierror.InvalidRequest, expectedField: "Limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			var dst sampleRequest
			err := DecodeJSON(r, &dst)

			if tt.expectedCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !apierror.Is(err, tt.expectedCode) {
				t.Fatalf("expected %s, got %v", tt.expectedCode, err)
			}

			if tt.expectedField == "" {
				return
			}

			e, _ := apierror.As(err)
			fields, _ := e.Details["fields"].(map[string]any)
			if _, ok := fields[tt.expectedField]; !ok {
				t.Errorf("expected field %s in details, got %v", tt.expectedField, e.Details)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&size=25", nil)
	if page, size := Pagination(r); page != 3 || size != 25 {
		t.Fatalf("expected 3/25, got %d/%d", page, size)
	}

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	if page, size := Pagination(r); page != 0 || size != 0 {
		t.Fatalf("expected defaults, got %d/%d", page, size)
	}
}
