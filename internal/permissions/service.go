package permissions

import (
	"context"
	"strings"

	"github.com/aegis-iam/aegis/internal/shared"
)

// Service orchestrates permission catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns every known codename in the user scope, baseline included.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.repo.ListCodenames(ctx, UserScope)
}

// Create adds a new permission to the user scope.
func (s *Service) Create(ctx context.Context, codename, name string) (*Permission, error) {
	codename = strings.TrimSpace(codename)
	name = strings.TrimSpace(name)
	if codename == "" {
		return nil, shared.E(shared.ErrValidation, "'codename' field is required.")
	}
	if name == "" {
		return nil, shared.E(shared.ErrValidation, "'name' field is required.")
	}
	return s.repo.Create(ctx, UserScope, codename, name)
}

// SeedBaseline loads the fixed baseline permission set. Called once at
// process start; safe to repeat.
func (s *Service) SeedBaseline(ctx context.Context) error {
	return s.repo.SeedBaseline(ctx, UserScope, Baseline)
}
