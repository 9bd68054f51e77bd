package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "classcart_sid"

// SessionTTL bounds how long a login stays valid without re-authenticating.
const SessionTTL = 24 * time.Hour

// SessionStore resolves opaque session tokens to usernames.
type SessionStore interface {
	// Create mints a new session for the username and returns its token.
	Create(ctx context.Context, username string) (string, error)
	// Resolve returns the username for a token, or "" when the session does
	// not exist or has expired.
	Resolve(ctx context.Context, token string) (string, error)
	// Destroy removes a session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// redisSessionStore keeps sessions in Redis under session:<token> keys with
// a sliding-free fixed TTL.
type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a SessionStore backed by the given Redis client.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (s *redisSessionStore) Create(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKey(token), username, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *redisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	username, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return username, nil
}

func (s *redisSessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
