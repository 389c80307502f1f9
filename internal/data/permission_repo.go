package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lovenote/lovenote-web/internal/data/pgxutil"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	apperrors "github.com/lovenote/lovenote-web/internal/errors"
)

// PermissionRepo stores role → permission grants.
type PermissionRepo struct {
	DB *sql.DB
}

// NewPermissionRepo creates a PermissionRepo.
func NewPermissionRepo(db *sql.DB) *PermissionRepo {
	return &PermissionRepo{DB: db}
}

// PermissionsForRoles returns the distinct permissions granted to any of roles, sorted.
func (r *PermissionRepo) PermissionsForRoles(ctx context.Context, roles []domainauth.Role) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var out []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT DISTINCT permission FROM role_permissions
			WHERE role = ANY($1)
			ORDER BY permission`, names)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("permissions for roles: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Grant adds a permission to a role. It reports whether the grant is new.
func (r *PermissionRepo) Grant(ctx context.Context, role, permission string) (bool, error) {
	role, permission = strings.TrimSpace(role), strings.TrimSpace(permission)
	if role == "" {
		return false, ErrRoleRequired
	}
	if permission == "" {
		return false, ErrPermissionRequired
	}

	var inserted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			INSERT INTO role_permissions (role, permission) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, role, permission)
		inserted = tag.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("grant permission: %w", apperrors.MapDBError(err))
	}
	return inserted > 0, nil
}

// Revoke removes a permission from a role. It reports whether a grant was removed.
func (r *PermissionRepo) Revoke(ctx context.Context, role, permission string) (bool, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`DELETE FROM role_permissions WHERE role = $1 AND permission = $2`,
			strings.TrimSpace(role), strings.TrimSpace(permission))
		deleted = tag.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("revoke permission: %w", apperrors.MapDBError(err))
	}
	return deleted > 0, nil
}
