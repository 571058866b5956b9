package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/platform/db"
	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for the permission catalog.
type RepositoryPort interface {
	ListCodenames(ctx context.Context, scope string) ([]string, error)
	Create(ctx context.Context, scope, codename, name string) (*Permission, error)
	SeedBaseline(ctx context.Context, scope string, baseline []Permission) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListCodenames returns every catalog codename in the given scope, prefixed
// with the scope name ("users.add_user").
func (r *Repository) ListCodenames(ctx context.Context, scope string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ct.model || '.' || p.codename
		FROM permissions p
		JOIN content_types ct ON ct.id = p.content_type_id
		WHERE ct.model = $1
		ORDER BY p.codename`, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codenames []string
	for rows.Next() {
		var codename string
		if err := rows.Scan(&codename); err != nil {
			return nil, err
		}
		codenames = append(codenames, codename)
	}
	return codenames, rows.Err()
}

// Create inserts a new permission into the given scope. A dangling scope
// reference maps to ErrNotFound, a duplicate codename to ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, scope, codename, name string) (*Permission, error) {
	var perm Permission
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT id FROM content_types WHERE model = $1`, scope).
			Scan(&perm.ContentTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.E(shared.ErrNotFound, "No content type with model=%s exists.", scope)
			}
			return err
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO permissions (codename, name, content_type_id)
			VALUES ($1, $2, $3)
			RETURNING id`,
			codename, name, perm.ContentTypeID).Scan(&perm.ID); err != nil {
			if shared.IsUniqueViolation(err) {
				return shared.E(shared.ErrAlreadyExists, "The permission already exists.")
			}
			return err
		}
		perm.Codename = codename
		perm.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

// SeedBaseline idempotently inserts the fixed baseline permission set.
func (r *Repository) SeedBaseline(ctx context.Context, scope string, baseline []Permission) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var contentTypeID int64
		if err := tx.QueryRow(ctx, `SELECT id FROM content_types WHERE model = $1`, scope).
			Scan(&contentTypeID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.E(shared.ErrNotFound, "No content type with model=%s exists.", scope)
			}
			return err
		}
		for _, perm := range baseline {
			if _, err := tx.Exec(ctx, `
				INSERT INTO permissions (codename, name, content_type_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (content_type_id, codename) DO NOTHING`,
				perm.Codename, perm.Name, contentTypeID); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ RepositoryPort = (*Repository)(nil)
