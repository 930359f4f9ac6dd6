package cache

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Remember serves key from the cache, falling back to load on any cache error and storing what load returns.
// A failed store is logged and does not fail the read.
func Remember[T any](ctx context.Context, c RedisCache, key string, ttlSeconds int, load func(context.Context) (T, error)) (T, error) {
	var value T

	if err := c.Get(ctx, key, &value); err == nil {
		log.Debug().Str("cacheKey", key).Msg("cache hit")

		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Save(ctx, key, value, ttlSeconds); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save to cache")
	}

	return value, nil
}
