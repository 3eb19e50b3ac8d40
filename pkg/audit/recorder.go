// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package audit records the outcome of mutating operations off the request
// path. Recording never fails or slows the audited request.
package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/storage"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
)

const persistTimeout = 5 * time.Second

var _ RecorderInterface = (*Recorder)(nil)

type Recorder struct {
	storage StorageInterface

	entries chan *types.AuditEntry
	done    chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	// closed guards sends racing with Close
	mu     sync.RWMutex
	closed bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Record queues e without blocking. A full buffer drops the entry.
func (r *Recorder) Record(e *types.AuditEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Warnf("audit recorder closed, dropping %s entry", e.Action)
		return
	}

	select {
	case r.entries <- e:
	default:
		r.logger.Warnf("audit buffer full, dropping %s entry of %s", e.Action, e.IdentityID)
	}
}

// Start launches the worker persisting queued entries.
func (r *Recorder) Start() {
	r.startOnce.Do(func() {
		go r.work()
	})
}

// Close stops accepting entries and waits until the queued ones are
// persisted or ctx is done.
func (r *Recorder) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.entries)
		r.mu.Unlock()
	})

	// a recorder that never started has nothing to drain
	r.Start()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) work() {
	defer close(r.done)

	for e := range r.entries {
		r.persist(e)
	}
}

func (r *Recorder) persist(e *types.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "audit.Recorder.persist")
	defer span.End()

	err := r.storage.CreateAuditLog(ctx, e)

	switch {
	case err == nil:
	// the audit table is optional, its absence is not worth a log line
	case errors.Is(err, storage.ErrStoreAbsent):
	default:
		r.logger.Errorf("failed to persist audit entry %s of %s: %v", e.Action, e.IdentityID, err)
	}
}

func NewRecorder(storage StorageInterface, bufferSize int, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Recorder {
	r := new(Recorder)

	if bufferSize <= 0 {
		bufferSize = 1
	}

	r.storage = storage
	r.entries = make(chan *types.AuditEntry, bufferSize)
	r.done = make(chan struct{})

	r.tracer = tracer
	r.monitor = monitor
	r.logger = logger

	return r
}
