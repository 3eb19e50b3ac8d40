// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ LoggerInterface = (*Logger)(nil)

// Logger is the application logger, it embeds the sugared zap logger so the
// usual printf style helpers are available directly.
type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() SecurityLoggerInterface {
	return l.security
}

// NewLogger creates a JSON logger at the given level, an unknown level falls back to error.
func NewLogger(l string) *Logger {
	var lvl zapcore.Level

	switch strings.ToLower(l) {
	case "debug":
		lvl = zap.DebugLevel
	case "info":
		lvl = zap.InfoLevel
	case "warn", "warning":
		lvl = zap.WarnLevel
	default:
		lvl = zap.ErrorLevel
	}

	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	c.EncoderConfig.TimeKey = "@timestamp"
	c.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	base, err := c.Build()
	if err != nil {
		panic(err)
	}

	// security events are always emitted, regardless of the configured level
	sc := zap.NewProductionConfig()
	sc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	sc.EncoderConfig.TimeKey = "@timestamp"
	sc.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	sec, err := sc.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{
		SugaredLogger: base.Sugar(),
		security:      &SecurityLogger{l: sec.With(zap.String("type", "security"))},
	}
}

// NewNoopLogger discards every entry, security events included.
func NewNoopLogger() *Logger {
	nop := zap.NewNop()

	return &Logger{SugaredLogger: nop.Sugar(), security: &SecurityLogger{l: nop}}
}
