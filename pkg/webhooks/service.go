// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}

// HandleRegistration records a self registered identity as pending. The
// tenant is matched on the email domain; an administrator still has to
// activate the identity before it can call the API. Repeated hooks for the
// same identity are no-ops.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email, displayName string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	s.logger.Debugf("Handling registration for identity %s", identityID)

	email = strings.ToLower(strings.TrimSpace(email))

	if identityID == "" || email == "" {
		return fmt.Errorf("identity ID or email is empty")
	}

	if _, err := s.storage.GetIdentityByID(ctx, identityID); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to look up identity: %w", err)
	}

	identity := &types.Identity{
		ID:          identityID,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		Role:        types.RoleSalesRep,
		Status:      types.IdentityPending,
	}

	if _, domain, ok := strings.Cut(email, "@"); ok && domain != "" {
		tenant, err := s.storage.GetTenantByDomain(ctx, domain)
		switch {
		case err == nil:
			identity.TenantID = tenant.ID
		case errors.Is(err, storage.ErrNotFound):
			s.logger.Infof("no tenant registered for domain %s", domain)
		default:
			return fmt.Errorf("failed to match tenant: %w", err)
		}
	}

	if _, err := s.storage.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}

	s.logger.Infof("Registered pending identity %s in tenant %q", identityID, identity.TenantID)
	return nil
}
