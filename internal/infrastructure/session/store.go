package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBytes = 32

// Store persists anonymous shopping session tokens with a sliding TTL.
// Tokens are opaque and carry no user identity.
type Store interface {
	// Create mints a new session token
	Create(ctx context.Context) (string, error)

	// Validate reports whether the token is known and unexpired.
	// A valid token has its TTL extended.
	Validate(ctx context.Context, token string) (bool, error)

	// Delete removes a session token
	Delete(ctx context.Context, token string) error
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RedisStore implements Store using Redis. Suitable for distributed
// deployments where multiple instances share session state.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a session store over an existing Redis client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "session:token:",
		ttl:       ttl,
	}
}

func (s *RedisStore) key(token string) string {
	return s.keyPrefix + token
}

// Create mints a new session token
func (s *RedisStore) Create(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(token), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}
	return token, nil
}

// Validate checks the token and slides its expiration forward
func (s *RedisStore) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := s.client.Expire(ctx, s.key(token), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to validate session token: %w", err)
	}
	return ok, nil
}

// Delete removes a session token
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

// InMemoryStore provides an in-memory implementation for tests and
// single-instance deployments
type InMemoryStore struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiration time
	ttl    time.Duration
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Create mints a new session token
func (s *InMemoryStore) Create(_ context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = time.Now().Add(s.ttl)
	return token, nil
}

// Validate checks the token and slides its expiration forward
func (s *InMemoryStore) Validate(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiration, exists := s.tokens[token]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiration) {
		delete(s.tokens, token)
		return false, nil
	}
	s.tokens[token] = time.Now().Add(s.ttl)
	return true, nil
}

// Delete removes a session token
func (s *InMemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

var _ Store = (*InMemoryStore)(nil)
