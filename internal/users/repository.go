package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aegis-iam/aegis/internal/shared"
)

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, email, password_hash, is_active, created_at, updated_at`

// Create inserts a new active user account. Unique violations on email or
// username surface as ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+userColumns,
		username, email, passwordHash)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapCreateError(err)
	}
	return user, nil
}

// usernameConstraint is the unique index on users.username; the email index
// is the only other unique constraint on the table.
const usernameConstraint = "users_username_key"

func mapCreateError(err error) error {
	if !shared.IsUniqueViolation(err) {
		return err
	}
	if shared.ConstraintName(err) == usernameConstraint {
		return shared.E(shared.ErrAlreadyExists, "The provided username is already taken.")
	}
	return shared.E(shared.ErrAlreadyExists, "The provided email address already has an account.")
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	return wrapNotFound(user, err, "No user with id=%d exists.", id)
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
	user, err := scanUser(row)
	return wrapNotFound(user, err, "No user with email=%s exists.", email)
}

// FindByUsername fetches a user by username, case-insensitively.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
	user, err := scanUser(row)
	return wrapNotFound(user, err, "No user with username=%s exists.", username)
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func wrapNotFound(user *User, err error, format string, args ...any) (*User, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.E(shared.ErrNotFound, format, args...)
		}
		return nil, err
	}
	return user, nil
}

var _ RepositoryPort = (*Repository)(nil)
