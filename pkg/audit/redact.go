// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"strings"
)

const redacted = "[REDACTED]"

var sensitiveMarkers = []string{"password", "token", "secret", "apikey"}

// IsSensitive matches field names case-insensitively, ignoring '_' and '-',
// so apiKey, api_key and X-Api-Key are all caught.
func IsSensitive(field string) bool {
	f := strings.ToLower(field)
	f = strings.NewReplacer("_", "", "-", "").Replace(f)

	for _, m := range sensitiveMarkers {
		if strings.Contains(f, m) {
			return true
		}
	}

	return false
}

// Redact returns a copy of a decoded JSON value with every sensitive field
// replaced, at any depth.
func Redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if IsSensitive(k) {
				out[k] = redacted
				continue
			}
			out[k] = Redact(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}
