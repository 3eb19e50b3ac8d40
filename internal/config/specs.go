// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	TracingSampleRatio float64 `envconfig:"tracing_sample_ratio" default:"1"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	AuthenticationEnabled bool   `envconfig:"authentication_enabled" default:"true"`
	OIDCIssuer            string `envconfig:"oidc_issuer"`
	OIDCJWKSURL           string `envconfig:"oidc_jwks_url"`
	OIDCRequiredScope     string `envconfig:"oidc_required_scope"`

	KratosAdminURL     string `envconfig:"kratos_admin_url"`
	InvitationLifetime string `envconfig:"invitation_lifetime" default:"24h"`

	RedisAddr          string `envconfig:"redis_addr"`
	RedisPassword      string `envconfig:"redis_password"`
	RedisDB            int    `envconfig:"redis_db" default:"0"`
	RateLimitEnabled   bool   `envconfig:"rate_limit_enabled" default:"false"`
	RateLimitPerMinute int64  `envconfig:"rate_limit_per_minute" default:"600"`

	SchedulerEnabled  bool          `envconfig:"scheduler_enabled" default:"true"`
	SchedulerInterval time.Duration `envconfig:"scheduler_interval" default:"1h"`
	SchedulerLockTTL  time.Duration `envconfig:"scheduler_lock_ttl" default:"55m"`

	CollectorURL     string        `envconfig:"collector_url"`
	CollectorAPIKey  string        `envconfig:"collector_api_key"`
	CollectorTimeout time.Duration `envconfig:"collector_timeout" default:"30s"`
	AlertThreshold   float64       `envconfig:"alert_threshold" default:"0.1"`

	AuditBufferSize   int `envconfig:"audit_buffer_size" default:"1024"`
	AuditSummaryLimit int `envconfig:"audit_summary_limit" default:"4096"`
}
