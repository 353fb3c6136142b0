package content

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dineguide/dineguide/internal/model"
)

const (
	keyAll         = "dineguide:restaurants"
	keyRestaurant  = "dineguide:restaurant:"
	keyCollections = "dineguide:collections"
	keyCollection  = "dineguide:collection:"
)

// KV is the subset of a key-value cache used by CachedRepository.
// Get reports a miss with ErrCacheMiss.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

var ErrCacheMiss = errors.New("cache miss")

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	rdb *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV { return &RedisKV{rdb: rdb} }

func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := k.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (k *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return k.rdb.Set(ctx, key, value, ttl).Err()
}

func (k *RedisKV) Del(ctx context.Context, keys ...string) error {
	return k.rdb.Del(ctx, keys...).Err()
}

// HealthPing implements health.HealthPinger.
func (k *RedisKV) HealthPing(ctx context.Context) error {
	return k.rdb.Ping(ctx).Err()
}

// CachedRepository is a read-through cache in front of another Repository.
// Cache failures are logged and fall through to the backing repository.
type CachedRepository struct {
	next Repository
	kv   KV
	ttl  time.Duration
}

func NewCachedRepository(next Repository, kv KV, ttl time.Duration) *CachedRepository {
	return &CachedRepository{next: next, kv: kv, ttl: ttl}
}

func (c *CachedRepository) FetchAll(ctx context.Context) ([]*model.Restaurant, error) {
	return readThrough(ctx, c, keyAll, func() ([]*model.Restaurant, error) { return c.next.FetchAll(ctx) })
}

func (c *CachedRepository) FetchByID(ctx context.Context, id string) (*model.Restaurant, error) {
	return readThrough(ctx, c, keyRestaurant+id, func() (*model.Restaurant, error) { return c.next.FetchByID(ctx, id) })
}

func (c *CachedRepository) Collections(ctx context.Context) ([]*model.Collection, error) {
	return readThrough(ctx, c, keyCollections, func() ([]*model.Collection, error) { return c.next.Collections(ctx) })
}

func (c *CachedRepository) CollectionBySlug(ctx context.Context, slug string) (*model.Collection, error) {
	return readThrough(ctx, c, keyCollection+slug, func() (*model.Collection, error) { return c.next.CollectionBySlug(ctx, slug) })
}

// InvalidateRestaurant drops the restaurant document and the full listing.
func (c *CachedRepository) InvalidateRestaurant(ctx context.Context, id string) error {
	return c.kv.Del(ctx, keyAll, keyRestaurant+id)
}

// InvalidateCollection drops one collection and the index.
func (c *CachedRepository) InvalidateCollection(ctx context.Context, slug string) error {
	return c.kv.Del(ctx, keyCollections, keyCollection+slug)
}

func readThrough[T any](ctx context.Context, c *CachedRepository, key string, load func() (T, error)) (T, error) {
	if b, err := c.kv.Get(ctx, key); err == nil {
		var v T
		if jerr := json.Unmarshal(b, &v); jerr == nil {
			return v, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if b, err := json.Marshal(v); err == nil {
		if err := c.kv.Set(ctx, key, b, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
