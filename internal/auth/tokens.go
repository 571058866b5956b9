package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aegis-iam/aegis/internal/shared"
)

const tokenKeyPrefix = "aegis:token:"

// TokenStore keeps opaque bearer tokens in Redis with a TTL. The stored
// payload is enough to rebuild the principal without a database round trip.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

type tokenPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

// Issue mints a new opaque token for the given user.
func (s *TokenStore) Issue(ctx context.Context, userID int64, username string) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(tokenPayload{UserID: userID, Username: username})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, tokenKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve maps a presented token back to its principal. Unknown or expired
// tokens yield ErrUnauthorized.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*shared.Principal, error) {
	raw, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.E(shared.ErrUnauthorized, "Invalid token.")
		}
		return nil, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &shared.Principal{UserID: payload.UserID, Username: payload.Username, Token: token}, nil
}

// Revoke invalidates a token immediately.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKeyPrefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}
