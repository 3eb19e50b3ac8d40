// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/canonical/lead-access-service/internal/config"
	"github.com/canonical/lead-access-service/internal/db"
	"github.com/canonical/lead-access-service/internal/kratos"
	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/monitoring/prometheus"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/pkg/allocation"
	"github.com/canonical/lead-access-service/pkg/audit"
	"github.com/canonical/lead-access-service/pkg/authentication"
	"github.com/canonical/lead-access-service/pkg/identity"
	"github.com/canonical/lead-access-service/pkg/quota"
	"github.com/canonical/lead-access-service/pkg/ratelimit"
	"github.com/canonical/lead-access-service/pkg/scheduler"
	"github.com/canonical/lead-access-service/pkg/status"
	"github.com/canonical/lead-access-service/pkg/tenant"
	"github.com/canonical/lead-access-service/pkg/visibility"
	"github.com/canonical/lead-access-service/pkg/watcher"
	"github.com/canonical/lead-access-service/pkg/web"
	"github.com/canonical/lead-access-service/pkg/webhooks"
)

const serviceName = "lead-access-service"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadSpecs() *config.EnvSpec {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	return specs
}

// core is the set of components shared by the server and the in-process
// commands.
type core struct {
	specs    *config.EnvSpec
	dbClient *db.DBClient
	storage  *storage.Storage
	redis    *redis.Client
	ledger   *quota.Ledger
	watcher  *watcher.Service

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func newCore(specs *config.EnvSpec, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*core, error) {
	c := new(core)
	c.specs = specs
	c.monitor = monitor
	c.logger = logger
	c.tracer = tracing.NewTracer(
		tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger).
			WithSampleRatio(specs.TracingSampleRatio),
	)

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}

	dbClient, err := db.NewDBClient(dbConfig, c.tracer, monitor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %v", err)
	}

	c.dbClient = dbClient
	c.storage = storage.NewStorage(dbClient, c.tracer, monitor, logger)
	c.ledger = quota.NewLedger(c.storage, c.tracer, monitor, logger)

	if specs.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     specs.RedisAddr,
			Password: specs.RedisPassword,
			DB:       specs.RedisDB,
		})
	}

	collector := watcher.NewCollector(specs.CollectorURL, specs.CollectorAPIKey, specs.CollectorTimeout, c.tracer, monitor, logger)
	c.watcher = watcher.NewService(c.storage, dbClient, collector, c.ledger, specs.AlertThreshold, c.tracer, monitor, logger)

	return c, nil
}

func (c *core) Close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warnf("failed to close redis client: %v", err)
		}
	}

	c.dbClient.Close()
}

func (c *core) newScheduler() *scheduler.Scheduler {
	var locker scheduler.LockerInterface
	if c.redis != nil {
		locker = scheduler.NewRedisLocker(c.redis, scheduler.DefaultLockKey, c.specs.SchedulerLockTTL, c.logger)
	}

	return scheduler.NewScheduler(c.watcher, locker, c.specs.SchedulerInterval, c.tracer, c.monitor, c.logger)
}

func serve() error {
	specs := loadSpecs()

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor(serviceName, logger)

	c, err := newCore(specs, monitor, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	tracer := c.tracer

	var verifier authentication.TokenVerifierInterface
	if specs.AuthenticationEnabled {
		verifier, err = authentication.NewJWTAuthenticator(
			context.Background(),
			specs.OIDCIssuer,
			specs.OIDCJWKSURL,
			specs.OIDCRequiredScope,
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to set up authentication: %v", err)
		}
	} else {
		logger.Warn("authentication is disabled, bearer tokens are taken as subjects")
		verifier = authentication.NewNoopVerifier()
	}

	// the identity service checks for a nil interface, a typed nil would slip through
	var kratosClient identity.KratosClientInterface
	if specs.KratosAdminURL != "" {
		kratosClient = kratos.NewClient(specs.KratosAdminURL, tracer, monitor, logger)
	}

	identityService := identity.NewService(c.storage, c.ledger, kratosClient, specs.InvitationLifetime, tracer, monitor, logger)

	recorder := audit.NewRecorder(c.storage, specs.AuditBufferSize, tracer, monitor, logger)
	recorder.Start()

	sched := c.newScheduler()
	if specs.SchedulerEnabled {
		sched.Start()
	}

	deps := &web.Dependencies{
		Verifier:          verifier,
		IdentityResolver:  identityService,
		TenantResolver:    tenant.NewResolver(c.storage, tracer, monitor, logger),
		Tenants:           tenant.NewService(c.storage, tracer, monitor, logger),
		Identities:        identityService,
		Visibility:        visibility.NewEngine(c.storage, tracer, monitor, logger),
		VisibilityStorage: c.storage,
		Quota:             c.ledger,
		Allocation:        allocation.NewAuthorizer(c.storage, tracer, monitor, logger),
		Scheduler:         sched,
		Webhooks:          webhooks.NewService(c.storage, tracer, monitor, logger),
		Audit:             audit.NewMiddleware(recorder, specs.AuditSummaryLimit, tracer, monitor, logger),
		Probes: map[string]status.PingerInterface{
			"database": c.dbClient,
		},
	}

	// api_calls usage is recorded with or without a shared counter
	var counter redis.Cmdable
	var rateLimit int64

	if c.redis != nil {
		deps.Probes["redis"] = status.PingFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		})

		if specs.RateLimitEnabled {
			counter = c.redis
			rateLimit = specs.RateLimitPerMinute
		}
	} else if specs.RateLimitEnabled {
		logger.Warn("rate limiting requested without REDIS_ADDR, requests are not limited")
	}

	deps.RateLimiter = ratelimit.NewLimiter(counter, rateLimit, time.Minute, c.ledger, tracer, monitor, logger)

	router := web.NewRouter(deps, c.dbClient, tracer, monitor, logger)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			sig <- os.Interrupt
		}
	}()

	<-sig

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	// in-flight cycles finish before the pool goes away
	sched.Stop()

	if err := recorder.Close(ctx); err != nil {
		logger.Errorf("audit entries may have been lost: %v", err)
	}

	return serverError
}
