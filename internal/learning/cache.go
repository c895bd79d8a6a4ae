package learning

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 30 * time.Minute
	themesKey       = "learning:themes"
)

// RedisCache keeps the active theme list as a JSON blob with a TTL.
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
func (c *RedisCache) Get(ctx context.Context) ([]Theme, error) {
	data, err := c.client.Get(ctx, themesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var themes []Theme
	if err := json.Unmarshal(data, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

func (c *RedisCache) Set(ctx context.Context, themes []Theme) error {
	data, err := json.Marshal(themes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, themesKey, data, c.ttl).Err()
}
