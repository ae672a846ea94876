package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bistro-cms-be/internal/dto"

	"github.com/redis/go-redis/v9"
)

const renderKeyPrefix = "render:post:"

// RedisRenderCache stores rendered posts keyed by slug and locale.
type RedisRenderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRenderCache(rdb *redis.Client, ttl time.Duration) *RedisRenderCache {
	return &RedisRenderCache{rdb: rdb, ttl: ttl}
}

func renderKey(slug, locale string) string {
	return fmt.Sprintf("%s%s:%s", renderKeyPrefix, slug, locale)
}

// Get reports a miss as (nil, nil).
func (c *RedisRenderCache) Get(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error) {
	raw, err := c.rdb.Get(ctx, renderKey(slug, locale)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out dto.RenderedPostResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// A stale shape from an older build is just a miss.
		return nil, nil
	}
	return &out, nil
}

func (c *RedisRenderCache) Set(ctx context.Context, slug, locale string, rendered *dto.RenderedPostResponse) error {
	raw, err := json.Marshal(rendered)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, renderKey(slug, locale), raw, c.ttl).Err()
}

func (c *RedisRenderCache) Invalidate(ctx context.Context, slug string, locales ...string) error {
	if len(locales) == 0 {
		return nil
	}
	keys := make([]string, len(locales))
	for i, l := range locales {
		keys[i] = renderKey(slug, l)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
