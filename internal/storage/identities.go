// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/lead-access-service/internal/types"
)

var identityColumns = []string{
	"id",
	"email",
	"display_name",
	"role",
	"tenant_id",
	"manager_id",
	"terminal_code",
	"status",
	"last_seen_at",
	"created_at",
}

func scanIdentity(row sq.RowScanner) (*types.Identity, error) {
	var (
		i                                 types.Identity
		tenantID, managerID, terminalCode sql.NullString
		lastSeen                          sql.NullTime
	)

	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.DisplayName,
		&i.Role,
		&tenantID,
		&managerID,
		&terminalCode,
		&i.Status,
		&lastSeen,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.TenantID = fromNull(tenantID)
	i.ManagerID = fromNull(managerID)
	i.TerminalCode = fromNull(terminalCode)
	if lastSeen.Valid {
		t := lastSeen.Time
		i.LastSeenAt = &t
	}

	return &i, nil
}

func (s *Storage) GetIdentityByID(ctx context.Context, id string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetIdentityByID")
	defer span.End()

	return s.getIdentity(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetIdentityByEmail")
	defer span.End()

	return s.getIdentity(ctx, sq.Eq{"email": email})
}

func (s *Storage) getIdentity(ctx context.Context, pred sq.Eq) (*types.Identity, error) {
	row := s.db.Statement(ctx).
		Select(identityColumns...).
		From("identities").
		Where(pred).
		QueryRowContext(ctx)

	i, err := scanIdentity(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return i, nil
}

func (s *Storage) CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateIdentity")
	defer span.End()

	row := s.db.Statement(ctx).
		Insert("identities").
		Columns("id", "email", "display_name", "role", "tenant_id", "manager_id", "terminal_code", "status").
		Values(
			i.ID,
			i.Email,
			i.DisplayName,
			string(i.Role),
			nullable(i.TenantID),
			nullable(i.ManagerID),
			nullable(i.TerminalCode),
			string(i.Status),
		).
		Suffix("RETURNING " + joinColumns(identityColumns)).
		QueryRowContext(ctx)

	created, err := scanIdentity(row)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "identity already exists")
		}
		if IsForeignKeyViolation(err) {
			return nil, WrapForeignKeyError(err, "identity references unknown tenant or manager")
		}
		return nil, fmt.Errorf("failed to insert identity: %w", err)
	}

	if len(i.AssignedRegions) > 0 {
		q := s.db.Statement(ctx).
			Insert("identity_regions").
			Columns("identity_id", "region")

		for _, region := range i.AssignedRegions {
			q = q.Values(created.ID, region)
		}

		if _, err := q.Suffix("ON CONFLICT DO NOTHING").ExecContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert identity regions: %w", err)
		}
	}

	created.AssignedRegions = i.AssignedRegions

	return created, nil
}

func (s *Storage) UpdateIdentityStatus(ctx context.Context, id string, status types.IdentityStatus) error {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateIdentityStatus")
	defer span.End()

	result, err := s.db.Statement(ctx).
		Update("identities").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update identity status: %w", err)
	}

	return expectAffected(result, "identity")
}

func (s *Storage) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	ctx, span := s.tracer.Start(ctx, "storage.TouchLastSeen")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Update("identities").
		Set("last_seen_at", at).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}

	return nil
}

func (s *Storage) ListAssignedRegions(ctx context.Context, identityID string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListAssignedRegions")
	defer span.End()

	q := s.db.Statement(ctx).
		Select("region").
		From("identity_regions").
		Where(sq.Eq{"identity_id": identityID}).
		OrderBy("region")

	return s.queryStrings(ctx, q, "regions")
}

// ListDirectReportIDs returns the identities whose manager is managerID,
// one level only, in creation order.
func (s *Storage) ListDirectReportIDs(ctx context.Context, tenantID, managerID string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListDirectReportIDs")
	defer span.End()

	q := s.db.Statement(ctx).
		Select("id").
		From("identities").
		Where(sq.Eq{"tenant_id": tenantID, "manager_id": managerID}).
		OrderBy("created_at", "id")

	return s.queryStrings(ctx, q, "direct reports")
}

func (s *Storage) ListTerminalPostalPrefixes(ctx context.Context, tenantID, terminalCode string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTerminalPostalPrefixes")
	defer span.End()

	q := s.db.Statement(ctx).
		Select("postal_prefix").
		From("terminal_postal_codes").
		Where(sq.Eq{"tenant_id": tenantID, "terminal_code": terminalCode}).
		OrderBy("postal_prefix")

	return s.queryStrings(ctx, q, "postal prefixes")
}

// CountIdentities counts the identities holding a seat, inactive ones excluded.
func (s *Storage) CountIdentities(ctx context.Context, tenantID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CountIdentities")
	defer span.End()

	var count int64
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("identities").
		Where(sq.Eq{"tenant_id": tenantID}).
		Where(sq.NotEq{"status": string(types.IdentityInactive)}).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}

	return count, nil
}

func (s *Storage) queryStrings(ctx context.Context, q sq.SelectBuilder, what string) ([]string, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", what, err)
	}

	return values, nil
}

func expectAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}

	return nil
}
