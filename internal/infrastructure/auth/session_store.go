package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rentdesk/backend/internal/infrastructure/config"
)

// SessionStore records revoked sessions until their tokens would have expired anyway
type SessionStore interface {
	// Revoke marks a session as logged out for ttl
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error

	// IsRevoked reports whether the session was logged out
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RedisSessionStore implements SessionStore using Redis
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionStore connects to Redis and creates a session store
func NewRedisSessionStore(ctx context.Context, cfg config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for session store: %w", err)
	}

	return NewRedisSessionStoreWithClient(client), nil
}

// NewRedisSessionStoreWithClient creates a session store with an existing Redis client
func NewRedisSessionStoreWithClient(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: "rentdesk:session:revoked:",
	}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// Revoke stores the session ID with a TTL
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks whether the session ID is stored
func (s *RedisSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

// Ping checks the Redis connection
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// InMemorySessionStore keeps revoked sessions in process memory.
// Revocations are lost on restart and not shared between instances.
type InMemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // session ID -> expiration
	now     func() time.Time
}

// NewInMemorySessionStore creates a new in-memory session store
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records the session until ttl elapses
func (s *InMemorySessionStore) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[sessionID] = s.now().Add(ttl)
	return nil
}

// IsRevoked reports whether the session is revoked, dropping expired entries
func (s *InMemorySessionStore) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiration, exists := s.revoked[sessionID]
	if !exists {
		return false, nil
	}
	if s.now().After(expiration) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

// Ensure InMemorySessionStore implements SessionStore
var _ SessionStore = (*InMemorySessionStore)(nil)
