package shared

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates a dangling reference to a user, permission or role.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation on a permission, role or assignment.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation indicates a missing or invalid required field.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates a missing or unusable credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authorization denial.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error pairs a kind sentinel with the human-readable message returned to
// API clients. errors.Is against the sentinel still works through Unwrap.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// E builds an Error of the given kind with a formatted message.
func E(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Concurrent duplicate inserts surface through this rather than
// through a prior read, so repositories translate it into ErrAlreadyExists.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// ConstraintName returns the violated constraint of a PostgreSQL error, empty
// for anything else. Lets repositories pick a message per unique index.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
