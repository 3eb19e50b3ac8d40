// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"
	"strings"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

type Middleware struct {
	verifier TokenVerifierInterface
	resolver IdentityResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authenticate resolves the caller from the bearer credential and stores
// the Identity in the request context. Nothing downstream runs for callers
// that cannot be resolved to an active identity.
func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			token, found := m.getBearerToken(r.Header)
			if !found {
				m.logger.Security().AuthnFailure("missing or malformed bearer token")
				httpTypes.WriteError(w, m.logger, apierror.New(apierror.Unauthenticated, "missing or malformed bearer token"))
				return
			}

			subject, err := m.verifier.VerifyToken(ctx, token)
			if err != nil {
				m.logger.Debugf("JWT verification failed: %v", err)
				m.logger.Security().AuthnFailure("invalid credential")
				httpTypes.WriteError(w, m.logger, apierror.New(apierror.InvalidCredential, "invalid or expired token"))
				return
			}

			identity, err := m.resolver.ResolveIdentity(ctx, subject)
			if err != nil {
				httpTypes.WriteError(w, m.logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")
	if bearer == "" {
		return "", false
	}

	// Only support "Bearer <token>" format (RFC 6750)
	token, ok := strings.CutPrefix(bearer, "Bearer ")
	if !ok {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func NewMiddleware(
	verifier TokenVerifierInterface,
	resolver IdentityResolverInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Middleware {
	return &Middleware{
		verifier: verifier,
		resolver: resolver,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
