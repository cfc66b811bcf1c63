package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecofinds/recommendation-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached recommendations across instances. Same contract as
// MemoryStore; the TTL is enforced by Redis key expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func buildKey(userID int64) string {
	return fmt.Sprintf("rec:user:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) ([]domain.ScoredRecommendation, bool, error) {
	key := buildKey(userID)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []domain.ScoredRecommendation
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}

	return recs, true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int64, recs []domain.ScoredRecommendation) error {
	key := buildKey(userID)
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := s.client.Set(ctx, key, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}

	return nil
}

// Ping connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
