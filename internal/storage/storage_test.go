// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

// sqlClient runs every statement straight on the mocked connection.
type sqlClient struct {
	db *sql.DB
}

var _ db.DBClientInterface = (*sqlClient)(nil)

func (c *sqlClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(c.db)
}

func (c *sqlClient) TxStatement(ctx context.Context) (db.TxInterface, sq.StatementBuilderType, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sq.StatementBuilderType{}, err
	}
	return tx, sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(tx), nil
}

func (c *sqlClient) BeginTx(ctx context.Context) (context.Context, db.TxInterface, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return ctx, nil, err
	}
	return db.ContextWithTx(ctx, tx), tx, nil
}

func (c *sqlClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (c *sqlClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqlClient) Close() {
	_ = c.db.Close()
}

func setupMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	logger := logging.NewNoopLogger()
	s := NewStorage(
		&sqlClient{db: conn},
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor("lead-access-service", logger),
		logger,
	)

	return s, mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestGetIdentityByID(t *testing.T) {
	s, mock := setupMockStorage(t)
	created := time.Now()

	rows := sqlmock.NewRows(identityColumns).
		AddRow("u-1", "ann@example.com", "Ann", "manager", "t-1", nil, nil, "active", nil, created)

	mock.ExpectQuery(q("SELECT id, email, display_name, role, tenant_id, manager_id, terminal_code, status, last_seen_at, created_at FROM identities WHERE id = $1")).
		WithArgs("u-1").
		WillReturnRows(rows)

	i, err := s.GetIdentityByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, types.RoleManager, i.Role)
	assert.Equal(t, "t-1", i.TenantID)
	assert.Empty(t, i.ManagerID)
	assert.Empty(t, i.TerminalCode)
	assert.Nil(t, i.LastSeenAt)
	assert.Equal(t, types.IdentityActive, i.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetIdentityByIDNotFound(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT (.+) FROM identities").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	i, err := s.GetIdentityByID(context.Background(), "missing")

	assert.Nil(t, i)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIdentityWithRegions(t *testing.T) {
	s, mock := setupMockStorage(t)
	created := time.Now()

	mock.ExpectQuery(q("INSERT INTO identities (id,email,display_name,role,tenant_id,manager_id,terminal_code,status) VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING")).
		WithArgs("u-2", "bob@example.com", "Bob", "terminal_manager", "t-1", nil, "T01", "active").
		WillReturnRows(sqlmock.NewRows(identityColumns).
			AddRow("u-2", "bob@example.com", "Bob", "terminal_manager", "t-1", nil, "T01", "active", nil, created))

	mock.ExpectExec(q("INSERT INTO identity_regions (identity_id,region) VALUES ($1,$2),($3,$4) ON CONFLICT DO NOTHING")).
		WithArgs("u-2", "north", "u-2", "west").
		WillReturnResult(sqlmock.NewResult(0, 2))

	i, err := s.CreateIdentity(context.Background(), &types.Identity{
		ID:              "u-2",
		Email:           "bob@example.com",
		DisplayName:     "Bob",
		Role:            types.RoleTerminalManager,
		TenantID:        "t-1",
		TerminalCode:    "T01",
		Status:          types.IdentityActive,
		AssignedRegions: []string{"north", "west"},
	})

	require.NoError(t, err)
	assert.Equal(t, "T01", i.TerminalCode)
	assert.Equal(t, []string{"north", "west"}, i.AssignedRegions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIdentityDuplicate(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery("INSERT INTO identities").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.CreateIdentity(context.Background(), &types.Identity{ID: "u-2", Role: types.RoleSalesRep, Status: types.IdentityPending})

	assert.ErrorIs(t, err, ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateIdentityStatusNotFound(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec(q("UPDATE identities SET status = $1 WHERE id = $2")).
		WithArgs("inactive", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateIdentityStatus(context.Background(), "ghost", types.IdentityInactive)

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListDirectReportIDsKeepsStorageOrder(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(q("SELECT id FROM identities WHERE manager_id = $1 AND tenant_id = $2 ORDER BY created_at, id")).
		WithArgs("U5", "t-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("U9").AddRow("U10"))

	ids, err := s.ListDirectReportIDs(context.Background(), "t-1", "U5")

	require.NoError(t, err)
	assert.Equal(t, []string{"U9", "U10"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTerminalPostalPrefixesEmpty(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT postal_prefix FROM terminal_postal_codes").
		WillReturnRows(sqlmock.NewRows([]string{"postal_prefix"}))

	prefixes, err := s.ListTerminalPostalPrefixes(context.Background(), "t-1", "T01")

	require.NoError(t, err)
	assert.NotNil(t, prefixes)
	assert.Empty(t, prefixes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountIdentitiesExcludesInactive(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM identities WHERE tenant_id = $1 AND status <> $2")).
		WithArgs("t-1", "inactive").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := s.CountIdentities(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenantByIDNotFound(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT (.+) FROM tenants WHERE id = ").
		WithArgs("t-x").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetTenantByID(context.Background(), "t-x")

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenantByDomainLowercases(t *testing.T) {
	s, mock := setupMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM tenants WHERE domain = ").
		WithArgs("acme.io").
		WillReturnRows(sqlmock.NewRows(tenantColumns).AddRow("t-1", "Acme", "acme.io", "pro", true, 10, 100, 500, now))

	tenant, err := s.GetTenantByDomain(context.Background(), "ACME.io")

	require.NoError(t, err)
	assert.Equal(t, "t-1", tenant.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTenantsPaginates(t *testing.T) {
	s, mock := setupMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(q("SELECT id, company_name, domain, subscription_tier, is_active, max_users, max_leads_per_month, max_customers, created_at FROM tenants ORDER BY created_at LIMIT 10 OFFSET 10")).
		WillReturnRows(sqlmock.NewRows(tenantColumns).AddRow("t-2", "Acme", "acme.io", "pro", true, 10, 100, 500, now))

	tenants, err := s.ListTenants(context.Background(), 2, 10)

	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, int64(500), tenants[0].MaxCustomers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTenantStatus(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec(q("UPDATE tenants SET is_active = $1 WHERE id = $2")).
		WithArgs(false, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SetTenantStatus(context.Background(), "t-1", false))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUsageEntryReadsBackExistingRow(t *testing.T) {
	s, mock := setupMockStorage(t)
	now := time.Now()

	// Losing the race inserts nothing, the existing row is returned.
	mock.ExpectExec(q("INSERT INTO usage_ledger (tenant_id,month_bucket) VALUES ($1,$2) ON CONFLICT (tenant_id, month_bucket) DO NOTHING")).
		WithArgs("t-1", "2026-10").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery("SELECT (.+) FROM usage_ledger").
		WithArgs("2026-10", "t-1").
		WillReturnRows(sqlmock.NewRows(usageColumns).AddRow("t-1", "2026-10", 42, 3, 1000, 5, now))

	u, err := s.EnsureUsageEntry(context.Background(), "t-1", "2026-10")

	require.NoError(t, err)
	assert.Equal(t, int64(42), u.LeadsCreated)
	assert.Equal(t, int64(3), u.CustomersCreated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUsageEntryToleratesDuplicateKey(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec("INSERT INTO usage_ledger").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	mock.ExpectQuery("SELECT (.+) FROM usage_ledger").
		WillReturnRows(sqlmock.NewRows(usageColumns).AddRow("t-1", "2026-10", 0, 0, 0, 0, time.Now()))

	u, err := s.EnsureUsageEntry(context.Background(), "t-1", "2026-10")

	require.NoError(t, err)
	assert.Equal(t, "2026-10", u.MonthBucket)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsageIsSingleUpsert(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec(q("INSERT INTO usage_ledger (tenant_id,month_bucket,api_calls) VALUES ($1,$2,$3) ON CONFLICT (tenant_id, month_bucket) DO UPDATE SET api_calls = usage_ledger.api_calls + EXCLUDED.api_calls, updated_at = NOW()")).
		WithArgs("t-1", "2026-10", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.IncrementUsage(context.Background(), "t-1", "2026-10", types.UsageAPICalls, 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementUsageUnknownType(t *testing.T) {
	s, mock := setupMockStorage(t)

	err := s.IncrementUsage(context.Background(), "t-1", "2026-10", types.UsageType("bogus"), 1)

	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogStoreAbsent(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "audit_logs" does not exist`})

	err := s.CreateAuditLog(context.Background(), &types.AuditEntry{Action: "quota.check"})

	assert.ErrorIs(t, err, ErrStoreAbsent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLogOtherError(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(errors.New("connection reset"))

	err := s.CreateAuditLog(context.Background(), &types.AuditEntry{Action: "quota.check"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrStoreAbsent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestSnapshotDecodesState(t *testing.T) {
	s, mock := setupMockStorage(t)
	now := time.Now()

	mock.ExpectQuery("SELECT customer_id, state, captured_at FROM customer_snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "state", "captured_at"}).
			AddRow("c-1", []byte(`{"metrics":{"price":10},"competitors":["acme"]}`), now))

	snap, err := s.GetLatestSnapshot(context.Background(), "c-1")

	require.NoError(t, err)
	assert.Equal(t, 10.0, snap.State.Metrics["price"])
	assert.Equal(t, []string{"acme"}, snap.State.Competitors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMonitoredCustomers(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(q("FROM customers c JOIN tenants t ON t.id = c.tenant_id WHERE c.monitoring_enabled = $1 AND t.is_active = $2")).
		WithArgs(true, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).AddRow("c-1", "t-1", "Acme"))

	customers, err := s.ListMonitoredCustomers(context.Background())

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Acme", customers[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
