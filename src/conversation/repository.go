package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"eino_grocery_bot/pkg"
)

// Sink receives one entry per completed turn
type Sink interface {
	Record(ctx context.Context, entry pkg.TranscriptEntry) error
}

// Repository is a Sink that can also read a session back
type Repository interface {
	Sink
	History(ctx context.Context, sessionID string, limit int) ([]pkg.TranscriptEntry, error)
}

// RedisRepository appends turns to a Redis list per session
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisRepository) key(sessionID string) string {
	return "conversation:" + sessionID
}

// Record appends the entry and refreshes the list TTL
func (r *RedisRepository) Record(ctx context.Context, entry pkg.TranscriptEntry) error {
	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}

	key := r.key(entry.SessionID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}
	return nil
}

// History returns the last limit entries of a session, oldest first.
// A non-positive limit returns the whole transcript.
func (r *RedisRepository) History(ctx context.Context, sessionID string, limit int) ([]pkg.TranscriptEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	rows, err := r.client.LRange(ctx, r.key(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	entries := make([]pkg.TranscriptEntry, 0, len(rows))
	for _, row := range rows {
		var entry pkg.TranscriptEntry
		if err := sonic.UnmarshalString(row, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
