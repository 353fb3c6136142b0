package factory

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dineguide/dineguide/internal/config"
	"github.com/dineguide/dineguide/internal/content"
)

// Content is the read-side repository plus the hooks writers use to keep it fresh.
type Content struct {
	Repository  content.Repository
	Invalidator content.Invalidator
	// Redis is nil when caching is disabled.
	Redis *content.RedisKV
	close func() error
}

// Close releases the cache connection, if any.
func (c *Content) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// NewContent wraps next in a Redis read-through cache when REDIS_ADDR is set.
// An unreachable Redis is logged but not fatal: cache errors fall through to next.
func NewContent(ctx context.Context, cfg *config.Config, next content.Repository, log zerolog.Logger) *Content {
	if cfg.RedisAddr == "" {
		return &Content{Repository: next, Invalidator: content.NopInvalidator{}}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	kv := content.NewRedisKV(rdb)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.HealthProbeTimeout())
	defer cancel()
	if err := kv.HealthPing(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis not reachable; cache will fall through")
	} else {
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL()).Msg("content cache ready")
	}

	cached := content.NewCachedRepository(next, kv, cfg.CacheTTL())
	return &Content{Repository: cached, Invalidator: cached, Redis: kv, close: rdb.Close}
}
