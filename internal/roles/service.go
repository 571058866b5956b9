package roles

import (
	"context"
	"strings"

	"github.com/aegis-iam/aegis/internal/shared"
)

// Service handles role registry business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all roles as a name to id mapping.
func (s *Service) List(ctx context.Context) (map[string]int64, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(roles))
	for _, role := range roles {
		byName[role.Name] = role.ID
	}
	return byName, nil
}

// Create registers a new role bound to the permission identified by codename.
// Calling Create twice with the same role name is rejected, not merged.
func (s *Service) Create(ctx context.Context, permissionCodename, roleName string) (*Role, error) {
	permissionCodename = strings.TrimSpace(permissionCodename)
	roleName = strings.TrimSpace(roleName)
	if permissionCodename == "" {
		return nil, shared.E(shared.ErrValidation, "'permission_codename' field is required.")
	}
	if roleName == "" {
		return nil, shared.E(shared.ErrValidation, "'role_name' field is required.")
	}
	return s.repo.CreateWithPermission(ctx, roleName, permissionCodename)
}
