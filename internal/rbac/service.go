package rbac

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aegis-iam/aegis/internal/permissions"
	"github.com/aegis-iam/aegis/internal/shared"
)

// Service orchestrates role assignment and effective permission resolution.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetRoles returns the user's assigned roles as a name to id mapping.
func (s *Service) GetRoles(ctx context.Context, userID int64) (map[string]int64, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	refs, err := s.repo.ListUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(refs))
	for _, ref := range refs {
		byName[ref.Name] = ref.ID
	}
	return byName, nil
}

// AssignRoles binds the named roles to the user in order. The whole call is
// atomic: an unknown role name or an edge that already exists fails the
// entire assignment. An already-present edge is a conflict, not a no-op, so
// repeating an identical call fails. Returns a message naming the last
// processed role.
func (s *Service) AssignRoles(ctx context.Context, userID int64, names []string) (string, error) {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return "", shared.E(shared.ErrValidation, "'roles' field is required.")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return "", err
	}
	if err := s.repo.AssignRoles(ctx, userID, cleaned); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s has been added to user.", cleaned[len(cleaned)-1]), nil
}

// EffectivePermissions tests each requested permission id against the user's
// effective set: direct grants united with grants via assigned roles,
// restricted to the user scope. The result has exactly one entry per
// requested id, keyed by its decimal string form.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64, ids []int64) (map[string]bool, error) {
	if len(ids) == 0 {
		return nil, shared.E(shared.ErrValidation, "'permission_ids' field is required.")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	held, err := s.repo.EffectivePermissionIDs(ctx, userID, permissions.UserScope)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(ids))
	for _, id := range ids {
		_, ok := held[id]
		result[strconv.FormatInt(id, 10)] = ok
	}
	return result, nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.E(shared.ErrNotFound, "No user with id=%d exists.", userID)
	}
	return nil
}
