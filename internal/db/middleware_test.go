// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/logging"
)

type recordingClient struct {
	calls int
	err   error
}

func (c *recordingClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder
}

func (c *recordingClient) TxStatement(context.Context) (TxInterface, sq.StatementBuilderType, error) {
	return nil, sq.StatementBuilder, nil
}

func (c *recordingClient) BeginTx(ctx context.Context) (context.Context, TxInterface, error) {
	return ctx, nil, nil
}

func (c *recordingClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	c.calls++
	c.err = fn(ctx)
	return c.err
}

func (c *recordingClient) Ping(context.Context) error { return nil }

func (c *recordingClient) Close() {}

func TestTransactionMiddleware(t *testing.T) {
	testCases := []struct {
		name          string
		method        string
		status        int
		expectedCalls int
		expectErr     bool
	}{
		{name: "GET skips transaction", method: http.MethodGet, status: http.StatusOK, expectedCalls: 0},
		{name: "OPTIONS skips transaction", method: http.MethodOptions, status: http.StatusNoContent, expectedCalls: 0},
		{name: "POST success commits", method: http.MethodPost, status: http.StatusCreated, expectedCalls: 1},
		{name: "POST rejection rolls back", method: http.MethodPost, status: http.StatusTooManyRequests, expectedCalls: 1, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := new(recordingClient)

			handler := TransactionMiddleware(client, logging.NewNoopLogger())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
				}),
			)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tc.method, "/api/v0/quota/leads/check", nil))

			if w.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, w.Code)
			}

			if client.calls != tc.expectedCalls {
				t.Fatalf("expected %d transactions, got %d", tc.expectedCalls, client.calls)
			}

			if tc.expectedCalls > 0 && (client.err != nil) != tc.expectErr {
				t.Errorf("expected error %v, got %v", tc.expectErr, client.err)
			}
		})
	}
}

func TestDetachDropsTransaction(t *testing.T) {
	ctx := ContextWithTx(context.Background(), nil)
	ctx = context.WithValue(ctx, deferredTxKey{}, &deferredTx{})

	detached := Detach(ctx)

	if deferredTxFromContext(detached) != nil {
		t.Fatal("expected no deferred transaction")
	}

	if TxFromContext(detached) != nil {
		t.Fatal("expected no transaction")
	}
}
