package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence for the token audit trail. Redis is the
// authority for token validity; these rows exist for inspection and are
// swept by the background worker once expired.
type Repository interface {
	RecordToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	DeleteToken(ctx context.Context, token string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// RecordToken persists a freshly issued token.
func (r *PGRepository) RecordToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, expiresAt.UTC())
	return err
}

// DeleteToken removes a token record after logout.
func (r *PGRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token = $1`, token)
	return err
}

var _ Repository = (*PGRepository)(nil)
