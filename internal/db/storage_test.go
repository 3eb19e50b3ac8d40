// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

func newMockClient(t *testing.T) (*DBClient, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	logger := logging.NewNoopLogger()

	d := new(DBClient)
	d.db = conn
	d.tracer = tracing.NewNoopTracer()
	d.monitor = monitoring.NewNoopMonitor("lead-access-service", logger)
	d.logger = logger

	return d, mock
}

func TestWithTx(t *testing.T) {
	tests := []struct {
		name      string
		statement bool
		fnErr     error
		setup     func(sqlmock.Sqlmock)
	}{
		{
			name: "no statement never begins",
		},
		{
			name:      "statement commits",
			statement: true,
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE tenants").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
		},
		{
			name:      "failure rolls back",
			statement: true,
			fnErr:     errors.New("quota exceeded"),
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE tenants").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectRollback()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mock := newMockClient(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			err := d.WithTx(context.Background(), func(ctx context.Context) error {
				if tt.statement {
					if _, err := d.Statement(ctx).Update("tenants").Set("is_active", false).Where("id = ?", "T1").ExecContext(ctx); err != nil {
						return err
					}
				}
				return tt.fnErr
			})

			if !errors.Is(err, tt.fnErr) {
				t.Errorf("expected error %v, got %v", tt.fnErr, err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestDetachEscapesTransaction(t *testing.T) {
	d, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tenants").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE usage_ledger").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_ = d.WithTx(context.Background(), func(ctx context.Context) error {
		if _, err := d.Statement(ctx).Update("tenants").Set("is_active", true).ExecContext(ctx); err != nil {
			return err
		}

		detached := Detach(ctx)
		if TxFromContext(detached) != nil || deferredTxFromContext(detached) != nil {
			t.Error("detached context still carries a transaction")
		}

		if _, err := d.Statement(detached).Update("usage_ledger").Set("api_calls", 1).ExecContext(detached); err != nil {
			return err
		}

		return errors.New("rejected")
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPing(t *testing.T) {
	d, mock := newMockClient(t)
	mock.ExpectPing()

	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		page, size     int64
		offset, length uint64
	}{
		{page: 0, size: 0, offset: 0, length: defaultPageSize},
		{page: 1, size: 20, offset: 0, length: 20},
		{page: 3, size: 20, offset: 40, length: 20},
		{page: -1, size: 20, offset: 0, length: 20},
		{page: 2, size: 10_000, offset: maxPageSize, length: maxPageSize},
	}

	for _, tt := range tests {
		length := PageSize(tt.size)
		if length != tt.length {
			t.Errorf("PageSize(%d): expected %d, got %d", tt.size, tt.length, length)
		}

		if offset := Offset(tt.page, length); offset != tt.offset {
			t.Errorf("Offset(%d, %d): expected %d, got %d", tt.page, length, tt.offset, offset)
		}
	}
}
