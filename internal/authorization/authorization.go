// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"
	"net/http"

	"github.com/canonical/lead-access-service/internal/apierror"
	httpTypes "github.com/canonical/lead-access-service/internal/http/types"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	identity IdentityFunc

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, identity *types.Identity, min types.Role) error {
	_, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	if identity == nil {
		return apierror.New(apierror.Unauthenticated, "no authenticated identity")
	}

	if !AtLeast(identity.Role, min) {
		a.logger.Security().AuthzFailure(identity.ID, fmt.Sprintf("role:%s", min))
		return apierror.Newf(apierror.InsufficientRole, "role %s is required", min)
	}

	return nil
}

// RequireRole rejects requests whose authenticated caller ranks below min.
func (a *Authorizer) RequireRole(min types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := a.identity(r.Context())

			if err := a.Check(r.Context(), identity, min); err != nil {
				httpTypes.WriteError(w, a.logger, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func NewAuthorizer(identity IdentityFunc, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	a := new(Authorizer)

	a.identity = identity

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
