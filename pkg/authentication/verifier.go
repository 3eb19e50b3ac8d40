// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

type JWTVerifier struct {
	verifier      *oidc.IDTokenVerifier
	requiredScope string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// VerifyToken returns the subject of a valid token. When a scope is
// configured the token must grant it.
func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	claims := new(accessClaims)
	if err := token.Claims(claims); err != nil {
		v.logger.Debugf("Failed to extract claims: %v", err)
		return "", err
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	if v.requiredScope == "" || claims.grants(v.requiredScope) {
		return claims.Subject, nil
	}

	v.logger.Security().AuthzFailure(claims.Subject, "jwt_api_access")
	return "", fmt.Errorf("unauthorized: missing required scope %q", v.requiredScope)
}

// accessClaims covers both the space separated "scope" claim and the
// "scp" array some issuers emit instead.
type accessClaims struct {
	Subject string   `json:"sub"`
	Scope   string   `json:"scope"`
	Scopes  []string `json:"scp"`
}

func (c *accessClaims) grants(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scopes, scope)
}

func NewJWTVerifier(
	provider ProviderInterface,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return NewJWTVerifierDirect(provider.Verifier(verifierConfig()), requiredScope, tracer, monitor, logger)
}

func NewJWTVerifierDirect(
	verifier *oidc.IDTokenVerifier,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return &JWTVerifier{
		verifier:      verifier,
		requiredScope: requiredScope,
		tracer:        tracer,
		monitor:       monitor,
		logger:        logger,
	}
}
