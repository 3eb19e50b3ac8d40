// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestDebugLogger(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("DEBUG")
	}()
}

func TestInvalidLevel(t *testing.T) {
	func() {
		_ = recover()
		NewLogger("invalid")
	}()
}

func TestLevelFallback(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "warn", "error", "bogus"} {
		l := NewLogger(lvl)
		if l.Security() == nil {
			t.Fatalf("expected security logger for level %q", lvl)
		}
	}

	if NewLogger("bogus").Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Error("unknown level should fall back to error")
	}
}

func TestNoopLoggerSecurity(t *testing.T) {
	l := NewNoopLogger()

	l.Security().SystemStartup()
	l.Security().TenantImpersonation("user-1", "tenant-1", "/api/v0/me")
	l.Security().QuotaRejected("tenant-1", "leads", 10, 10)
	l.Security().SystemShutdown()
}
