// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"database/sql"
	"strings"

	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

var _ StorageInterface = (*Storage)(nil)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

// nullable turns the empty string into SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fromNull(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}
