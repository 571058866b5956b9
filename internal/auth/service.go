package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aegis-iam/aegis/internal/shared"
	"github.com/aegis-iam/aegis/internal/users"
)

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	Token    string
	UserID   int64
	Username string
}

// Service wraps authentication business rules.
type Service struct {
	users  *users.Service
	tokens *TokenStore
	repo   Repository
}

// NewService constructs a new Service.
func NewService(userService *users.Service, tokens *TokenStore, repo Repository) *Service {
	return &Service{users: userService, tokens: tokens, repo: repo}
}

// SignUp registers a new active user account.
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, username, email, string(hash))
}

// Login authenticates the identifier/password pair and issues a token. The
// failure message never distinguishes unknown accounts from wrong passwords
// or inactive users.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, errInvalidLogin()
	}
	if !user.IsActive {
		return nil, errInvalidLogin()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidLogin()
	}

	token, err := s.tokens.Issue(ctx, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	if s.repo != nil {
		if err := s.repo.RecordToken(ctx, token, user.ID, time.Now().Add(s.tokens.TTL())); err != nil {
			return nil, err
		}
	}
	return &LoginResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	if s.repo != nil {
		return s.repo.DeleteToken(ctx, token)
	}
	return nil
}

func errInvalidLogin() error {
	return shared.E(shared.ErrInvalidCredentials, "Unable to login with the provided credentials.")
}
