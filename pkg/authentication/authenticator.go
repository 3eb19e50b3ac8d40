// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

var otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// NewJWTAuthenticator initializes a JWT token verifier, either from a fixed
// JWKS URL or through OIDC discovery on the issuer.
func NewJWTAuthenticator(
	ctx context.Context,
	issuer string,
	jwksURL string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required for JWT authentication")
	}

	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	if jwksURL != "" {
		logger.Infof("Using manual JWKS URL: %s", jwksURL)

		keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
		verifier := oidc.NewVerifier(issuer, keySet, verifierConfig())

		logger.Info("JWT authentication is enabled with manual JWKS URL")
		return NewJWTVerifierDirect(verifier, requiredScope, tracer, monitor, logger), nil
	}

	logger.Infof("Using OIDC discovery for issuer: %s", issuer)

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
	}

	logger.Info("JWT authentication is enabled with OIDC discovery")
	return NewJWTVerifier(provider, requiredScope, tracer, monitor, logger), nil
}

// access tokens are not bound to a single client
func verifierConfig() *oidc.Config {
	return &oidc.Config{
		SkipClientIDCheck: true,
		SkipIssuerCheck:   false,
	}
}
