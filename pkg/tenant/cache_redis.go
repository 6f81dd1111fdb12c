package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "tenantgate:tenant:"

// redisCache shares dynamic registry lookups across service instances.
// Errors are swallowed deliberately: a cache outage must degrade to a
// provider lookup, never to a failed request.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed tenant cache.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, slug string) (*Tenant, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+slug).Bytes()
	if err != nil {
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		// Corrupted entry, drop it so the next lookup repopulates.
		c.client.Del(ctx, redisKeyPrefix+slug)
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, slug string, t *Tenant, ttl time.Duration) {
	if t == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+slug, data, ttl)
}

func (c *redisCache) Delete(ctx context.Context, slug string) {
	c.client.Del(ctx, redisKeyPrefix+slug)
}

func (c *redisCache) Close() error {
	return nil // client lifecycle is owned by the caller
}
