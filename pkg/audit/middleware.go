// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
	"github.com/canonical/lead-access-service/internal/types"
	"github.com/canonical/lead-access-service/pkg/authentication"
	"github.com/canonical/lead-access-service/pkg/tenant"
)

const defaultSummaryLimit = 4096

var _ MiddlewareInterface = (*Middleware)(nil)

type Middleware struct {
	recorder     RecorderInterface
	summaryLimit int
	now          func() time.Time

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// trail collects what the middlewares further down the chain learn about a
// request. The entry is built from it once the request completed.
type trail struct {
	action     string
	identityID string
	scope      *types.Scope
}

type trailKey struct{}

func trailFromContext(ctx context.Context) *trail {
	t, _ := ctx.Value(trailKey{}).(*trail)
	return t
}

func (t *trail) attribute(ctx context.Context) {
	if id, ok := authentication.GetUserID(ctx); ok {
		t.identityID = id
	}

	if scope, ok := tenant.GetScope(ctx); ok {
		t.scope = scope
	}
}

// Trail records every mutating request that reaches it, including those
// rejected further down by authentication, tenant resolution, rate limiting
// or role checks. It must sit in front of all of them.
func (m *Middleware) Trail() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := new(trail)
			m.capture(w, r.WithContext(context.WithValue(r.Context(), trailKey{}, t)), t, next)
		})
	}
}

// Attribute copies the caller identity and tenant scope known at this point
// of the chain into the request trail.
func (m *Middleware) Attribute() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t := trailFromContext(r.Context()); t != nil {
				t.attribute(r.Context())
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Audit labels the entry with action. Behind a Trail it only annotates,
// otherwise it records the entry itself once the handler returned,
// whatever its status.
func (m *Middleware) Audit(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if t := trailFromContext(r.Context()); t != nil {
				t.action = action
				t.attribute(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			t := &trail{action: action}
			t.attribute(r.Context())
			m.capture(w, r, t, next)
		})
	}
}

func (m *Middleware) capture(w http.ResponseWriter, r *http.Request, t *trail, next http.Handler) {
	start := m.now()

	reqBody := m.captureRequest(r)

	respBody := &limitedBuffer{limit: m.summaryLimit}
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	ww.Tee(respBody)

	defer func() {
		p := recover()

		status := ww.Status()
		switch {
		case status != 0:
		case p != nil:
			status = http.StatusInternalServerError
		default:
			status = http.StatusOK
		}

		if t.action != "" || mutating(r.Method) {
			m.recorder.Record(m.entry(r, t, status, m.now().Sub(start), reqBody, respBody.Bytes()))
		}

		if p != nil {
			panic(p)
		}
	}()

	next.ServeHTTP(ww, r)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// captureRequest reads at most summaryLimit bytes of the body and leaves
// the full body readable for the handler.
func (m *Middleware) captureRequest(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, int64(m.summaryLimit)+1))
	if err != nil {
		m.logger.Debugf("failed to capture request body for audit: %v", err)
	}

	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}

	return head
}

func (m *Middleware) entry(r *http.Request, t *trail, status int, d time.Duration, reqBody, respBody []byte) *types.AuditEntry {
	action := t.action
	if action == "" {
		action = r.Method + " " + routePattern(r)
	}

	e := &types.AuditEntry{
		Action:          action,
		Method:          r.Method,
		Path:            r.URL.Path,
		StatusCode:      status,
		DurationMs:      d.Milliseconds(),
		RequestSummary:  m.summarize(reqBody),
		ResponseSummary: m.summarize(respBody),
		CreatedAt:       m.now(),
		IdentityID:      t.identityID,
	}

	if t.scope != nil {
		e.TenantID = t.scope.TenantID()
		e.HighVisibility = t.scope.Impersonating
	}

	return e
}

// routePattern falls back to the raw path when the request never went
// through the chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// summarize redacts JSON payloads and caps the result. Anything that does
// not decode as JSON is reduced to its size, it could hold secrets.
func (m *Middleware) summarize(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	if len(body) > m.summaryLimit {
		return fmt.Sprintf("<%d+ bytes, truncated>", m.summaryLimit)
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Sprintf("<%d bytes, not json>", len(body))
	}

	out, err := json.Marshal(Redact(v))
	if err != nil {
		return fmt.Sprintf("<%d bytes>", len(body))
	}

	if len(out) > m.summaryLimit {
		return string(out[:m.summaryLimit])
	}

	return string(out)
}

type readCloser struct {
	io.Reader
	io.Closer
}

// limitedBuffer keeps the first limit+1 bytes written, enough to tell a
// truncated payload apart.
type limitedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit + 1 - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

// WithClock overrides the time source used for durations.
func (m *Middleware) WithClock(now func() time.Time) *Middleware {
	m.now = now
	return m
}

func NewMiddleware(recorder RecorderInterface, summaryLimit int, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	m := new(Middleware)

	if summaryLimit <= 0 {
		summaryLimit = defaultSummaryLimit
	}

	m.recorder = recorder
	m.summaryLimit = summaryLimit
	m.now = time.Now

	m.tracer = tracer
	m.monitor = monitor
	m.logger = logger

	return m
}
