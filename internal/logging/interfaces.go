// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Fatalf(string, ...interface{})
	Error(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Fatal(...interface{})
	Errorw(string, ...interface{})
	Infow(string, ...interface{})
	Warnw(string, ...interface{})
	Debugw(string, ...interface{})
	Sync() error

	Security() SecurityLoggerInterface
}

// SecurityLoggerInterface emits security relevant events on a dedicated logger
// so they can be routed and retained separately from application logs.
type SecurityLoggerInterface interface {
	SystemStartup()
	SystemShutdown()
	AuthnSuccess(userID string)
	AuthnFailure(reason string)
	AuthzFailure(userID, resource string)
	TenantImpersonation(actorID, tenantID, path string)
	QuotaRejected(tenantID, resource string, limit, current int64)
	AdminAction(actorID, action, target string)
}
