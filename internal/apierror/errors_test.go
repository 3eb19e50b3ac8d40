// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package apierror

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected Code
	}{
		{name: "plain error", err: errors.New("boom"), expected: Internal},
		{name: "api error", err: New(OutsideTeam, "nope"), expected: OutsideTeam},
		{name: "wrapped api error", err: fmt.Errorf("ctx: %w", New(TenantInactive, "off")), expected: TenantInactive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestLimitDetails(t *testing.T) {
	err := Limit(LeadQuotaExceeded, "monthly lead quota exceeded", 100, 100)

	if err.Details["limit"] != int64(100) || err.Details["current"] != int64(100) {
		t.Fatalf("unexpected details %v", err.Details)
	}

	if !Is(err, LeadQuotaExceeded) {
		t.Fatalf("expected code %s", LeadQuotaExceeded)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(Internal, "failed to load identity", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
}

func TestWithDetailsCopies(t *testing.T) {
	base := New(RateLimited, "slow down")
	detailed := base.WithDetails(map[string]any{"limit": 10})

	if base.Details != nil {
		t.Fatal("expected original error to be untouched")
	}

	if detailed.Details["limit"] != 10 {
		t.Fatalf("unexpected details %v", detailed.Details)
	}
}
