package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for the role registry.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	CreateWithPermission(ctx context.Context, roleName, permissionCodename string) (*Role, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles ordered by id.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateWithPermission creates the role and binds its seed permission in one
// transaction. A missing permission codename maps to ErrNotFound, a taken
// role name to ErrAlreadyExists.
func (r *Repository) CreateWithPermission(ctx context.Context, roleName, permissionCodename string) (*Role, error) {
	var role Role
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var permissionID int64
		if err := tx.QueryRow(ctx, `SELECT id FROM permissions WHERE codename = $1`, permissionCodename).
			Scan(&permissionID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.E(shared.ErrNotFound, "No permission with codename=%s exists.", permissionCodename)
			}
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO roles (name) VALUES ($1)
			RETURNING id, name, created_at`, roleName).
			Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			if shared.IsUniqueViolation(err) {
				return shared.E(shared.ErrAlreadyExists, "The role already exists.")
			}
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			VALUES ($1, $2)`, role.ID, permissionID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

var _ RepositoryPort = (*Repository)(nil)
