// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"fmt"
	"net/http"

	ory "github.com/ory/client-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

const (
	stateActive   = "active"
	stateInactive = "inactive"
)

type ClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, displayName string) (string, error)
	SetIdentityState(ctx context.Context, id string, active bool) error
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, error)
}

var _ ClientInterface = (*Client)(nil)

type Client struct {
	client  *ory.APIClient
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(kratosAdminURL string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: kratosAdminURL}}
	conf.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	return &Client{
		client:  ory.NewAPIClient(conf),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// GetIdentityIDByEmail returns the id of the identity registered with email,
// empty if there is none.
func (c *Client) GetIdentityIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.GetIdentityIDByEmail")
	defer span.End()

	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	ids, r, err := c.client.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	c.observe(r, err)
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to list identities: %w", err)
	}

	if len(ids) == 0 {
		return "", nil
	}

	return ids[0].Id, nil
}

func (c *Client) CreateIdentity(ctx context.Context, email, displayName string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.CreateIdentity")
	defer span.End()

	traits := map[string]interface{}{
		"email": email,
	}
	if displayName != "" {
		traits["name"] = displayName
	}

	body := ory.CreateIdentityBody{
		SchemaId: "default",
		Traits:   traits,
	}

	identity, r, err := c.client.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	c.observe(r, err)
	if err != nil {
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	return identity.Id, nil
}

// SetIdentityState mirrors an identity status flip onto the kratos state so
// a deactivated identity can no longer sign in.
func (c *Client) SetIdentityState(ctx context.Context, id string, active bool) error {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.SetIdentityState")
	defer span.End()

	state := stateInactive
	if active {
		state = stateActive
	}

	patch := []ory.JsonPatch{{Op: "replace", Path: "/state", Value: state}}

	_, r, err := c.client.IdentityAPI.PatchIdentity(ctx, id).JsonPatch(patch).Execute()
	c.observe(r, err)
	if err != nil {
		return fmt.Errorf("failed to patch identity state: %w", err)
	}

	return nil
}

func (c *Client) CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.CreateRecoveryLink")
	defer span.End()

	body := ory.CreateRecoveryCodeForIdentityBody{
		IdentityId: identityID,
		ExpiresIn:  &expiresIn,
	}

	recovery, r, err := c.client.IdentityAPI.CreateRecoveryCodeForIdentity(ctx).CreateRecoveryCodeForIdentityBody(body).Execute()
	c.observe(r, err)
	if err != nil {
		return "", fmt.Errorf("failed to create recovery code: %w", err)
	}

	return recovery.RecoveryLink, nil
}

func (c *Client) observe(r *http.Response, err error) {
	available := 1.0
	if err != nil && (r == nil || r.StatusCode >= http.StatusInternalServerError) {
		available = 0
	}

	if merr := c.monitor.SetDependencyAvailability(map[string]string{"component": "kratos"}, available); merr != nil {
		c.logger.Debugf("failed to record kratos availability: %v", merr)
	}
}
