package users

import (
	"context"
	"regexp"
)

// Identifiers that look like email addresses are matched against the email
// column, everything else against the username column.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service handles user account business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create inserts a new active user account.
func (s *Service) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	return s.repo.Create(ctx, username, email, passwordHash)
}

// GetByID fetches a user by primary key.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByIdentifier resolves a login identifier that may be either an email
// address or a username.
func (s *Service) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	if emailPattern.MatchString(identifier) {
		return s.repo.FindByEmail(ctx, identifier)
	}
	return s.repo.FindByUsername(ctx, identifier)
}
