// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package visibility

import (
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type Kind string

const (
	KindUnrestricted Kind = "no_restriction"
	KindTenant       Kind = "tenant"
	KindTeam         Kind = "team"
	KindRegion       Kind = "region"
	KindSelf         Kind = "self"
)

const (
	tenantField = "tenant_id"
	postalField = "postal_code"
)

var _ sq.Sqlizer = (*Filter)(nil)

// Filter is the read predicate over leads or customers. Every kind but
// KindUnrestricted also pins TenantID.
type Filter struct {
	Kind     Kind
	Field    string
	Values   []string
	TenantID string
}

// ToSql renders the filter as a squirrel predicate.
func (f *Filter) ToSql() (string, []interface{}, error) {
	switch f.Kind {
	case KindUnrestricted:
		return sq.And{}.ToSql()
	case KindTenant:
		return sq.Eq{tenantField: f.TenantID}.ToSql()
	case KindTeam, KindSelf:
		if len(f.Values) == 0 {
			return "", nil, fmt.Errorf("%s filter without values", f.Kind)
		}
		var owner sq.Sqlizer = sq.Eq{f.Field: f.Values}
		if len(f.Values) == 1 {
			owner = sq.Eq{f.Field: f.Values[0]}
		}
		return sq.And{sq.Eq{tenantField: f.TenantID}, owner}.ToSql()
	case KindRegion:
		if len(f.Values) == 0 {
			return "", nil, fmt.Errorf("region filter without prefixes")
		}
		prefixes := make(sq.Or, 0, len(f.Values))
		for _, p := range f.Values {
			prefixes = append(prefixes, sq.Like{f.Field: likeEscaper.Replace(p) + "%"})
		}
		return sq.And{sq.Eq{tenantField: f.TenantID}, prefixes}.ToSql()
	default:
		return "", nil, fmt.Errorf("unknown filter kind %q", f.Kind)
	}
}

// Apply narrows a select to the rows the filter allows.
func (f *Filter) Apply(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Where(f)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// MarshalJSON emits a scalar value for the single valued kinds, a list
// otherwise.
func (f *Filter) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind     Kind   `json:"kind"`
		Field    string `json:"field,omitempty"`
		Value    any    `json:"value,omitempty"`
		TenantID string `json:"tenantId,omitempty"`
	}{Kind: f.Kind, Field: f.Field, TenantID: f.TenantID}

	switch f.Kind {
	case KindTenant:
		out.Value = f.TenantID
	case KindSelf:
		if len(f.Values) == 1 {
			out.Value = f.Values[0]
		}
	case KindTeam, KindRegion:
		out.Value = f.Values
	}

	return json.Marshal(out)
}
