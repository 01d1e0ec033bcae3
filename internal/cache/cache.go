package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/codec"
	"github.com/eko/gocache/lib/v4/store"
	go_store "github.com/eko/gocache/store/go_cache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	"github.com/jon4hz/decksmith/internal/config"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is not cached or the cached value can't be decoded.
var ErrMiss = errors.New("cache miss")

// PrefixedCache wraps a cache.Cache and adds a prefix to all keys.
// Values are stored JSON encoded so the same wrapper works for memory and redis.
type PrefixedCache[T any] struct {
	cache     *cache.Cache[any]
	cacheType config.CacheType
	prefix    string
}

// NewPrefixedCache creates a new prefixed cache wrapper.
func NewPrefixedCache[T any](cache *cache.Cache[any], cacheType config.CacheType, prefix string) *PrefixedCache[T] {
	return &PrefixedCache[T]{
		cache:     cache,
		cacheType: cacheType,
		prefix:    prefix,
	}
}

func (p *PrefixedCache[T]) key(key any) string {
	return p.prefix + fmt.Sprintf("%v", key)
}

// Get retrieves a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Get(ctx context.Context, key any) (T, error) {
	var result T
	raw, err := p.cache.Get(ctx, p.key(key))
	if err != nil {
		return result, err
	}

	// the memory store hands back what we stored, redis returns a string
	var data []byte
	switch v := raw.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return result, ErrMiss
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMiss, err)
	}
	return result, nil
}

// Set stores a value in the cache with the prefixed key. Every entry is
// tagged with the prefix so Invalidate can find it again.
func (p *PrefixedCache[T]) Set(ctx context.Context, key any, object T, options ...store.Option) error {
	data, err := json.Marshal(object)
	if err != nil {
		return err
	}
	options = append(options, store.WithTags([]string{p.prefix}))
	return p.cache.Set(ctx, p.key(key), data, options...)
}

// Delete removes a value from the cache with the prefixed key.
func (p *PrefixedCache[T]) Delete(ctx context.Context, key any) error {
	return p.cache.Delete(ctx, p.key(key))
}

// Invalidate removes every value stored through this prefix. Other keys of a
// shared backend are left alone.
func (p *PrefixedCache[T]) Invalidate(ctx context.Context) error {
	return p.cache.Invalidate(ctx, store.WithInvalidateTags([]string{p.prefix}))
}

// GetType returns the configured cache type.
func (p *PrefixedCache[T]) GetType() config.CacheType {
	return p.cacheType
}

// GetStats returns the cache statistics.
func (p *PrefixedCache[T]) GetStats() *codec.Stats {
	return p.cache.GetCodec().GetStats()
}

// NewInstance returns a cache backend for the configured type.
func NewInstance(cfg *config.CacheConfig) *cache.Cache[any] {
	if cfg == nil {
		return newMemoryCache()
	}
	switch cfg.Type {
	case config.CacheTypeRedis:
		return newRedisCache(cfg)
	default:
		return newMemoryCache()
	}
}

func newMemoryCache() *cache.Cache[any] {
	// expiration is passed per entry, the default here only matters for entries set without one
	gocacheClient := gocache.New(gocache.NoExpiration, gocache.NoExpiration)
	gocacheStore := go_store.NewGoCache(gocacheClient)
	return cache.New[any](gocacheStore)
}

func newRedisCache(cfg *config.CacheConfig) *cache.Cache[any] {
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
	})
	redisStore := redis_store.NewRedis(redisClient)
	return cache.New[any](redisStore)
}
