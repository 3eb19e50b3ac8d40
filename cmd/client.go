// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

// apiClient talks to a running server on behalf of the CLI.
type apiClient struct {
	client *resty.Client
}

func newAPIClient() *apiClient {
	base := endpoint
	if !strings.HasPrefix(base, "http") {
		base = "http://" + base
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(base, "/")+"/api/v0").
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")

	if accessToken != "" {
		client.SetAuthToken(accessToken)
	}

	if tenantScope != "" {
		client.SetHeader(tenant.ScopeHeader, tenantScope)
	}

	return &apiClient{client: client}
}

// do sends the request and unwraps the response envelope into out.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		var e httpTypes.ErrorResponse
		if err := json.Unmarshal(resp.Body(), &e); err != nil || e.ErrorCode == "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
		}
		return fmt.Errorf("%s: %s", e.ErrorCode, e.Message)
	}

	if out == nil {
		return nil
	}

	envelope := httpTypes.Response{Data: out}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
