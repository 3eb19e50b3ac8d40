// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package visibility

import (
	"encoding/json"
	"reflect"
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func TestFilter_ToSql(t *testing.T) {
	tests := []struct {
		name         string
		filter       *Filter
		expectedSQL  string
		expectedArgs []interface{}
		expectErr    bool
	}{
		{
			name:         "unrestricted",
			filter:       &Filter{Kind: KindUnrestricted},
			expectedSQL:  "(1=1)",
			expectedArgs: []interface{}{},
		},
		{
			name:         "tenant",
			filter:       tenantFilter("T1"),
			expectedSQL:  "tenant_id = ?",
			expectedArgs: []interface{}{"T1"},
		},
		{
			name:         "team",
			filter:       &Filter{Kind: KindTeam, Field: "assigned_to", Values: []string{"U5", "U9", "U10"}, TenantID: "T1"},
			expectedSQL:  "(tenant_id = ? AND assigned_to IN (?,?,?))",
			expectedArgs: []interface{}{"T1", "U5", "U9", "U10"},
		},
		{
			name:         "self",
			filter:       selfFilter("T1", "U3", "account_manager_id"),
			expectedSQL:  "(tenant_id = ? AND account_manager_id = ?)",
			expectedArgs: []interface{}{"T1", "U3"},
		},
		{
			name:         "region escapes wildcards",
			filter:       &Filter{Kind: KindRegion, Field: "postal_code", Values: []string{"20", "2_%"}, TenantID: "T1"},
			expectedSQL:  "(tenant_id = ? AND (postal_code LIKE ? OR postal_code LIKE ?))",
			expectedArgs: []interface{}{"T1", "20%", `2\_\%%`},
		},
		{
			name:      "team without members",
			filter:    &Filter{Kind: KindTeam, Field: "assigned_to", TenantID: "T1"},
			expectErr: true,
		},
		{
			name:      "unknown kind",
			filter:    &Filter{Kind: "everyone"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.filter.ToSql()

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if sql != tt.expectedSQL {
				t.Errorf("expected sql %q, got %q", tt.expectedSQL, sql)
			}

			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("expected args %v, got %v", tt.expectedArgs, args)
			}
		})
	}
}

func TestFilter_ApplyUsesDollarPlaceholders(t *testing.T) {
	q := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("id").From("leads")

	sql, args, err := selfFilter("T1", "U3", "assigned_to").Apply(q).ToSql()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sql != "SELECT id FROM leads WHERE (tenant_id = $1 AND assigned_to = $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %v", args)
	}
}

func TestFilter_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected string
	}{
		{
			name:     "tenant value is scalar",
			filter:   tenantFilter("T1"),
			expected: `{"kind":"tenant","field":"tenant_id","value":"T1","tenantId":"T1"}`,
		},
		{
			name:     "team value is a list",
			filter:   &Filter{Kind: KindTeam, Field: "assigned_to", Values: []string{"U5", "U9", "U10"}, TenantID: "T1"},
			expected: `{"kind":"team","field":"assigned_to","value":["U5","U9","U10"],"tenantId":"T1"}`,
		},
		{
			name:     "unrestricted has no value",
			filter:   &Filter{Kind: KindUnrestricted},
			expected: `{"kind":"no_restriction"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if string(b) != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, b)
			}
		})
	}
}
