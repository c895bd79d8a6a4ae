package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 5 * time.Minute
	publishedKey    = "catalog:published"
)

// RedisCache stores the published catalog as a JSON blob with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns nil, nil on a cache miss.
func (c *RedisCache) Get(ctx context.Context) ([]Entry, error) {
	data, err := c.client.Get(ctx, publishedKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *RedisCache) Set(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, publishedKey, data, c.ttl).Err()
}

// Invalidate drops the cached list so the next read goes to the remote API.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, publishedKey).Err()
}
