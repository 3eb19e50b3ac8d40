// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"reflect"
	"testing"
)

func TestIsSensitive(t *testing.T) {
	tests := []struct {
		field    string
		expected bool
	}{
		{"password", true},
		{"Password", true},
		{"newPassword", true},
		{"token", true},
		{"accessToken", true},
		{"SECRET", true},
		{"client_secret", true},
		{"apiKey", true},
		{"api_key", true},
		{"X-Api-Key", true},
		{"email", false},
		{"companyName", false},
		{"key", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := IsSensitive(tt.field); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	in := map[string]any{
		"email":    "ada@acme.io",
		"Password": "hunter2",
		"profile": map[string]any{
			"apiKey": "k-1",
			"name":   "Ada",
		},
		"sessions": []any{
			map[string]any{"token": "t-1", "device": "phone"},
			"plain",
		},
	}

	expected := map[string]any{
		"email":    "ada@acme.io",
		"Password": redacted,
		"profile": map[string]any{
			"apiKey": redacted,
			"name":   "Ada",
		},
		"sessions": []any{
			map[string]any{"token": redacted, "device": "phone"},
			"plain",
		},
	}

	got := Redact(in)

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if in["Password"] != "hunter2" {
		t.Error("input was mutated")
	}
}
