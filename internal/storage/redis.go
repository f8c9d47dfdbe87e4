package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"eino_grocery_bot/pkg"
)

// Constants for session management
const (
	// SessionTTL is the default session TTL (40 minutes)
	SessionTTL = 40 * time.Minute

	contextPrefix = "session:context:"
)

// RedisContextStore keeps session contexts in Redis so several bot processes
// can serve the same sessions. Every Save refreshes the TTL.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses redisURL and checks the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisContextStore wraps an existing client
func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &RedisContextStore{client: client, ttl: ttl}
}

// key generates a Redis key for the given session ID
func (r *RedisContextStore) key(sessionID string) string {
	return contextPrefix + sessionID
}

// Load reads the context of a session; a missing key is an empty context
func (r *RedisContextStore) Load(ctx context.Context, sessionID string) (pkg.ConversationContext, error) {
	var convCtx pkg.ConversationContext
	if sessionID == "" {
		return convCtx, ErrInvalidSessionID
	}

	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return convCtx, nil
		}
		return convCtx, fmt.Errorf("failed to get session context: %w", err)
	}

	if err := sonic.Unmarshal(data, &convCtx); err != nil {
		return pkg.ConversationContext{}, fmt.Errorf("failed to unmarshal session context: %w", err)
	}
	if err := ValidateContext(convCtx); err != nil {
		return pkg.ConversationContext{}, err
	}
	return convCtx, nil
}

// Save stores the context with the store TTL
func (r *RedisContextStore) Save(ctx context.Context, sessionID string, convCtx pkg.ConversationContext) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}

	data, err := sonic.Marshal(convCtx)
	if err != nil {
		return fmt.Errorf("failed to marshal session context: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session context: %w", err)
	}
	return nil
}

// Reset removes the session context. ErrSessionNotFound is returned when
// there was nothing to remove.
func (r *RedisContextStore) Reset(ctx context.Context, sessionID string) error {
	deleted, err := r.client.Del(ctx, r.key(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session context: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// TTL gets remaining TTL for a session
func (r *RedisContextStore) TTL(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get TTL: %w", err)
	}
	return ttl, nil
}
