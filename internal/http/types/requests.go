// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/lead-access-service/internal/apierror"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes the request body into dst and validates its `validate`
// tags. Failures are reported as InvalidRequest with the offending fields in
// the details.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apierror.Wrap(apierror.InvalidRequest, "invalid request body", err)
	}

	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.Wrap(apierror.InvalidRequest, "invalid request", err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}

	return apierror.New(apierror.InvalidRequest, "invalid request").WithDetails(map[string]any{"fields": fields})
}

// Pagination reads the page and size query parameters, absent or malformed
// values are returned as 0 and defaulted by the storage layer.
func Pagination(r *http.Request) (int64, int64) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	size, _ := strconv.ParseInt(r.URL.Query().Get("size"), 10, 64)

	return page, size
}

// AuditFunc wraps a mutating handler, labelling its audit entry with action.
type AuditFunc func(action string) func(http.Handler) http.Handler

// NoAudit is the AuditFunc used when no recorder is wired.
func NoAudit(string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}
