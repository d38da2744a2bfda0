package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"route-session-service/internal/domain"
)

// DefaultTTL keeps cached suggestions short-lived: road conditions move, so
// a stale suggestion is worse than a backend round trip.
const DefaultTTL = 60 * time.Second

// RedisSuggestionCache stores suggest responses in Redis, keyed by the full
// request tuple.
type RedisSuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSuggestionCache(client *redis.Client, ttl time.Duration) *RedisSuggestionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSuggestionCache{client: client, ttl: ttl}
}

func (c *RedisSuggestionCache) Get(ctx context.Context, key string) (*domain.RoutePlanResult, error) {
	if c.client == nil {
		return nil, errors.New("suggestion cache: client is nil")
	}
	if key == "" {
		return nil, errors.New("suggestion cache: key must not be empty")
	}

	raw, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion cache: %w", err)
	}

	var result domain.RoutePlanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("get suggestion cache: decode entry: %w", err)
	}
	return &result, nil
}

func (c *RedisSuggestionCache) Put(ctx context.Context, key string, result *domain.RoutePlanResult) error {
	if c.client == nil {
		return errors.New("suggestion cache: client is nil")
	}
	if key == "" {
		return errors.New("suggestion cache: key must not be empty")
	}
	if result == nil {
		return errors.New("suggestion cache: result must not be nil")
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("put suggestion cache: encode entry: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put suggestion cache: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "suggest:" + key
}
