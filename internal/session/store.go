package session

import (
	"context"                     // Context for Redis operations
	"errors"                      // Error inspection
	"tarot_portal/internal/utils" // Redis JSON cache
	"time"                        // Session lifetime

	"github.com/redis/go-redis/v9" // Redis client
)

const sessionKeyPrefix = "session:" // Redis key prefix for session records

// Record is the server-side state of one session
type Record struct {
	UserID    uint  `json:"user_id"`    // Owner of the session
	CreatedAt int64 `json:"created_at"` // Unix seconds at login
}

// Store keeps session records keyed by opaque session id
type Store interface {
	Save(ctx context.Context, id string, rec Record, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis with a TTL per key
type RedisStore struct {
	cache *utils.JSONCache // Prefixed JSON cache
}

var _ Store = (*RedisStore)(nil) // Ensure RedisStore implements Store

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{cache: utils.NewJSONCache(rdb, sessionKeyPrefix)}
}

// Save writes the record with the session TTL
func (s *RedisStore) Save(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	if err := s.cache.Set(ctx, id, rec, ttl); err != nil {
		return storeError("save", err) // Redis unreachable
	}
	return nil
}

// Load returns ErrNoSession when the id is unknown or expired
func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := s.cache.Get(ctx, id, &rec); err != nil {
		if errors.Is(err, utils.ErrCacheMiss) {
			return nil, ErrNoSession // Expired or never existed
		}
		return nil, storeError("load", err) // Redis unreachable or corrupt value
	}
	return &rec, nil
}

// Delete removes the record; a missing record is not an error
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, id); err != nil {
		return storeError("delete", err) // Redis unreachable
	}
	return nil
}
