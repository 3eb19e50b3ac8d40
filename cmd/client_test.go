// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

func TestAPIClient_Do(t *testing.T) {
	var gotAuth, gotScope, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotScope = r.Header.Get(tenant.ScopeHeader)
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v0/tenants/missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorCode":"TENANT_NOT_FOUND","message":"tenant missing not found"}`))
			return
		}

		_, _ = w.Write([]byte(`{"data":{"id":"T1","companyName":"Acme"},"status":200}`))
	}))
	defer srv.Close()

	endpoint, accessToken, tenantScope = srv.URL, "abc", "T1"
	defer func() { endpoint, accessToken, tenantScope = "", "", "" }()

	c := newAPIClient()

	got := new(types.Tenant)
	if err := c.do(context.Background(), http.MethodGet, "/tenants/T1", nil, got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "T1" || got.CompanyName != "Acme" {
		t.Errorf("unexpected tenant %+v", got)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if gotScope != "T1" {
		t.Errorf("expected scope header T1, got %q", gotScope)
	}
	if gotPath != "/api/v0/tenants/T1" {
		t.Errorf("unexpected path %s", gotPath)
	}

	err := c.do(context.Background(), http.MethodGet, "/tenants/missing", nil, got)
	if err == nil || err.Error() != "TENANT_NOT_FOUND: tenant missing not found" {
		t.Errorf("expected decoded api error, got %v", err)
	}
}
