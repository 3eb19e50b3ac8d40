// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package apierror holds the structured error taxonomy shared by every
// access-control and quota component. Each failure carries a stable code
// that transports map onto status codes.
package apierror

import (
	"errors"
	"fmt"
)

type Code string

const (
	Unauthenticated      Code = "UNAUTHENTICATED"
	InvalidCredential    Code = "INVALID_CREDENTIAL"
	IdentityNotFound     Code = "IDENTITY_NOT_FOUND"
	IdentityInactive     Code = "IDENTITY_INACTIVE"
	NoTenantAssigned     Code = "NO_TENANT_ASSIGNED"
	TenantInactive       Code = "TENANT_INACTIVE"
	TenantNotFound       Code = "TENANT_NOT_FOUND"
	CrossTenantViolation Code = "CROSS_TENANT_VIOLATION"
	OutsideTeam          Code = "OUTSIDE_TEAM"
	OutsideTerminal      Code = "OUTSIDE_TERMINAL"
	InsufficientRole     Code = "INSUFFICIENT_ROLE"
	TargetNotFound       Code = "TARGET_NOT_FOUND"
	LeadQuotaExceeded    Code = "LEAD_QUOTA_EXCEEDED"
	CustomerLimitReached Code = "CUSTOMER_LIMIT_REACHED"
	UserLimitReached     Code = "USER_LIMIT_REACHED"
	RateLimited          Code = "RATE_LIMITED"
	InvalidRequest       Code = "INVALID_REQUEST"
	Internal             Code = "INTERNAL"
)

// Error is a failure with a stable code and optional structured details,
// e.g. {"limit": 100, "current": 100} for quota rejections.
type Error struct {
	Code    Code
	Message string
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails returns a copy of the error carrying the given details.
func (e *Error) WithDetails(details map[string]any) *Error {
	c := *e
	c.Details = details
	return &c
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause, kept out of the client facing message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Limit builds a quota rejection carrying the limit and the current value.
func Limit(code Code, message string, limit, current int64) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: map[string]any{"limit": limit, "current": current},
	}
}

// As extracts an *Error from the chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, Internal if err carries none.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
