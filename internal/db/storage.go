// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

const (
	defaultPage      uint64 = 1
	defaultPageSize  uint64 = 100
	maxPageSize      uint64 = 500
	defaultTxTimeout        = time.Second * 60
)

type txKey struct{}
type deferredTxKey struct{}

var txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

// Offset returns the row offset of a 1-based page.
func Offset(page int64, pageSize uint64) uint64 {
	if page <= 0 {
		return (defaultPage - 1) * pageSize
	}
	return uint64(page-1) * pageSize
}

// PageSize clamps the requested size to (0, maxPageSize].
func PageSize(size int64) uint64 {
	switch {
	case size <= 0:
		return defaultPageSize
	case uint64(size) > maxPageSize:
		return maxPageSize
	}
	return uint64(size)
}

func statement(runner sq.BaseRunner) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(runner)
}

// deferredTx is a transaction opened on the first statement that needs it,
// so read-only handlers inside WithTx never touch BEGIN.
type deferredTx struct {
	db        *sql.DB
	tx        TxInterface
	committed bool
	cancel    context.CancelFunc
}

func (t *deferredTx) begin() (TxInterface, error) {
	if t.tx != nil {
		return t.tx, nil
	}

	// detached from the request so a client hanging up does not abort the
	// commit, bounded so it cannot hold locks forever
	ctx, cancel := context.WithTimeout(context.Background(), defaultTxTimeout)
	tx, err := t.db.BeginTx(ctx, txOptions)
	if err != nil {
		cancel()
		return nil, err
	}

	t.tx = tx
	t.cancel = cancel
	return tx, nil
}

func (t *deferredTx) started() bool {
	return t.tx != nil
}

func (t *deferredTx) finish(logger logging.LoggerInterface) {
	if t.started() && !t.committed {
		if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Errorf("failed to rollback transaction: %v", err)
		}
	}

	if t.cancel != nil {
		t.cancel()
	}
}

type DBClient struct {
	pool *pgxpool.Pool
	db   *sql.DB

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Statement returns a builder bound to the transaction carried by ctx, if
// any, and to the pool otherwise.
func (d *DBClient) Statement(ctx context.Context) sq.StatementBuilderType {
	if dt := deferredTxFromContext(ctx); dt != nil {
		tx, err := dt.begin()
		if err == nil {
			return statement(tx)
		}

		d.logger.Errorf("failed to open request transaction, running outside of it: %v", err)
	}

	if tx := TxFromContext(ctx); tx != nil {
		return statement(tx)
	}

	return statement(d.db)
}

// TxStatement opens an explicit transaction the caller must finish.
func (d *DBClient) TxStatement(ctx context.Context) (TxInterface, sq.StatementBuilderType, error) {
	tx, err := d.db.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, sq.StatementBuilderType{}, err
	}

	return tx, statement(tx), nil
}

// BeginTx opens a transaction and attaches it to the returned context.
func (d *DBClient) BeginTx(ctx context.Context) (context.Context, TxInterface, error) {
	tx, err := d.db.BeginTx(ctx, txOptions)
	if err != nil {
		return ctx, nil, err
	}

	return ContextWithTx(ctx, tx), tx, nil
}

func ContextWithTx(ctx context.Context, tx TxInterface) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction attached to ctx, nil if none.
func TxFromContext(ctx context.Context) TxInterface {
	if tx, ok := ctx.Value(txKey{}).(TxInterface); ok {
		return tx
	}
	return nil
}

func deferredTxFromContext(ctx context.Context) *deferredTx {
	if dt, ok := ctx.Value(deferredTxKey{}).(*deferredTx); ok {
		return dt
	}
	return nil
}

// Detach returns a context that no longer carries a transaction, so
// statements run on their own connection and commit immediately. Used for
// best-effort writes that must outlive a rolled back request.
func Detach(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, deferredTxKey{}, (*deferredTx)(nil))
	return context.WithValue(ctx, txKey{}, nil)
}

// WithTx runs fn with a deferred transaction in its context. The
// transaction commits when fn succeeds and rolls back otherwise. If fn never
// ran a statement nothing is sent to the database.
func (d *DBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	dt := &deferredTx{db: d.db}
	defer dt.finish(d.logger)

	if err := fn(context.WithValue(ctx, deferredTxKey{}, dt)); err != nil {
		return err
	}

	if !dt.started() {
		return nil
	}

	if err := dt.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	dt.committed = true

	return nil
}

// Ping checks the database is reachable and reports it as a dependency.
func (d *DBClient) Ping(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "db.DBClient.Ping")
	defer span.End()

	err := d.db.PingContext(ctx)

	available := 1.0
	if err != nil {
		available = 0
	}
	if merr := d.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, available); merr != nil {
		d.logger.Debugf("failed to set database availability: %v", merr)
	}

	return err
}

func (d *DBClient) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}

	if d.pool != nil {
		d.pool.Close()
	}
}

// NewDBClient opens a pgx pool for cfg and exposes it through database/sql.
func NewDBClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*DBClient, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %v", err)
	}

	if cfg.TracingEnabled {
		// uses the global TracerProvider set up by the tracing package
		config.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnLifetime = cfg.MaxConnLifetime
	config.MaxConnLifetimeJitter = cfg.MaxConnLifetime / 10
	config.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %v", err)
	}

	if cfg.TracingEnabled {
		if err := otelpgx.RecordStats(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to start metrics collection for database: %v", err)
		}
	}

	d := new(DBClient)
	d.pool = pool
	d.db = stdlib.OpenDBFromPool(pool)

	d.tracer = tracer
	d.monitor = monitor
	d.logger = logger

	if err := d.db.Ping(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to connect to the database: %v", err)
	}

	return d, nil
}
