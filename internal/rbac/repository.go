package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for role assignment and
// effective permission resolution.
type RepositoryPort interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	ListUserRoles(ctx context.Context, userID int64) ([]RoleRef, error)
	AssignRoles(ctx context.Context, userID int64, names []string) error
	EffectivePermissionIDs(ctx context.Context, userID int64, scope string) (map[int64]struct{}, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UserExists reports whether the user id resolves.
func (r *Repository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

// ListUserRoles returns the roles assigned to the user.
func (r *Repository) ListUserRoles(ctx context.Context, userID int64) ([]RoleRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []RoleRef
	for rows.Next() {
		var ref RoleRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// AssignRoles binds every named role to the user inside one transaction.
// Any unresolved name or already-present edge rolls the whole call back, so
// a failed assignment leaves no partial state.
func (r *Repository) AssignRoles(ctx context.Context, userID int64, names []string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, name := range names {
			var roleID int64
			if err := tx.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&roleID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return shared.E(shared.ErrNotFound, "No %s role exists.", name)
				}
				return err
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_roles (user_id, role_id)
				VALUES ($1, $2)`, userID, roleID); err != nil {
				if shared.IsUniqueViolation(err) {
					return shared.E(shared.ErrAlreadyExists, "%s already assigned to user.", name)
				}
				return err
			}
		}
		return nil
	})
}

// EffectivePermissionIDs returns the ids of every permission the user holds
// in the given scope, directly or through an assigned role.
func (r *Repository) EffectivePermissionIDs(ctx context.Context, userID int64, scope string) (map[int64]struct{}, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id
		FROM permissions p
		JOIN content_types ct ON ct.id = p.content_type_id
		WHERE ct.model = $2
		  AND (
			p.id IN (SELECT permission_id FROM user_permissions WHERE user_id = $1)
			OR p.id IN (
				SELECT rp.permission_id
				FROM role_permissions rp
				JOIN user_roles ur ON ur.role_id = rp.role_id
				WHERE ur.user_id = $1
			)
		  )`, userID, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	held := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		held[id] = struct{}{}
	}
	return held, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
