// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "sys_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "sys_shutdown"))
}

func (s *SecurityLogger) AuthnSuccess(userID string) {
	s.l.Info("authentication succeeded", zap.String("event", "authn_login_success:"+userID))
}

func (s *SecurityLogger) AuthnFailure(reason string) {
	s.l.Warn("authentication failed", zap.String("event", "authn_login_fail"), zap.String("reason", reason))
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.l.Warn("authorization failed", zap.String("event", "authz_fail:"+userID+","+resource))
}

// TenantImpersonation is always logged at WARN level, a super admin acting in
// a tenant's scope must stand out in the security stream.
func (s *SecurityLogger) TenantImpersonation(actorID, tenantID, path string) {
	s.l.Warn(
		"tenant scope override",
		zap.String("event", "authz_impersonate:"+actorID+","+tenantID),
		zap.String("path", path),
	)
}

func (s *SecurityLogger) QuotaRejected(tenantID, resource string, limit, current int64) {
	s.l.Info(
		"quota rejected",
		zap.String("event", "quota_rejected:"+tenantID+","+resource),
		zap.Int64("limit", limit),
		zap.Int64("current", current),
	)
}

func (s *SecurityLogger) AdminAction(actorID, action, target string) {
	s.l.Info("admin action", zap.String("event", "admin_"+action+":"+actorID+","+target))
}
