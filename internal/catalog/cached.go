package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/jon4hz/decksmith/internal/cache"
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/config"
)

const allKey = "all"

var _ Accessor = (*Cached)(nil) // Ensure Cached implements Accessor

// Cached puts a gocache layer in front of another Accessor.
// Catalog reads are the hot path of every render so results are cached
// until the next Warm or until the ttl expires.
type Cached struct {
	next Accessor
	ttl  time.Duration

	all    *cache.PrefixedCache[[]card.Card]
	byName *cache.PrefixedCache[[]card.Card]
	exact  *cache.PrefixedCache[card.Card]
}

// NewCached wraps next with caches from the given backend.
func NewCached(next Accessor, cfg *config.CacheConfig) *Cached {
	if cfg == nil {
		cfg = &config.CacheConfig{Type: config.CacheTypeMemory}
	}
	backend := cache.NewInstance(cfg)
	return &Cached{
		next:   next,
		ttl:    cfg.GetCacheTTL(),
		all:    cache.NewPrefixedCache[[]card.Card](backend, cfg.Type, "catalog-all-"),
		byName: cache.NewPrefixedCache[[]card.Card](backend, cfg.Type, "catalog-name-"),
		exact:  cache.NewPrefixedCache[card.Card](backend, cfg.Type, "catalog-exact-"),
	}
}

// FindByName returns cached substring results, loading them on a miss.
func (c *Cached) FindByName(ctx context.Context, substr string) ([]card.Card, error) {
	key := strings.ToLower(strings.TrimSpace(substr))
	if cards, err := c.byName.Get(ctx, key); err == nil {
		return cards, nil
	}

	cards, err := c.next.FindByName(ctx, substr)
	if err != nil {
		return nil, err
	}
	if err := c.byName.Set(ctx, key, cards, store.WithExpiration(c.ttl)); err != nil {
		log.Warn("failed to cache card search", "query", substr, "error", err)
	}
	return cards, nil
}

// FindExact returns the cached card, loading it on a miss. Misses are not cached.
func (c *Cached) FindExact(ctx context.Context, name string) (card.Card, error) {
	if cached, err := c.exact.Get(ctx, name); err == nil {
		return cached, nil
	}

	found, err := c.next.FindExact(ctx, name)
	if err != nil {
		return card.Card{}, err
	}
	if err := c.exact.Set(ctx, name, found, store.WithExpiration(c.ttl)); err != nil {
		log.Warn("failed to cache card", "name", name, "error", err)
	}
	return found, nil
}

// All returns the cached catalog, loading it on a miss.
func (c *Cached) All(ctx context.Context) ([]card.Card, error) {
	if cards, err := c.all.Get(ctx, allKey); err == nil {
		return cards, nil
	}
	return c.load(ctx)
}

// Warm drops every cached lookup and reloads the full catalog.
func (c *Cached) Warm(ctx context.Context) error {
	for _, invalidate := range []func(context.Context) error{c.all.Invalidate, c.byName.Invalidate, c.exact.Invalidate} {
		if err := invalidate(ctx); err != nil {
			log.Warn("failed to invalidate catalog cache", "error", err)
		}
	}
	cards, err := c.load(ctx)
	if err != nil {
		return err
	}
	log.Info("Catalog cache warmed", "cards", len(cards))
	return nil
}

// Stats returns hit and miss counters of the full catalog cache.
func (c *Cached) Stats() (hits, misses int) {
	stats := c.all.GetStats()
	if stats == nil {
		return 0, 0
	}
	return stats.Hits, stats.Miss
}

func (c *Cached) load(ctx context.Context) ([]card.Card, error) {
	cards, err := c.next.All(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.all.Set(ctx, allKey, cards, store.WithExpiration(c.ttl)); err != nil {
		log.Warn("failed to cache catalog", "error", err)
	}
	return cards, nil
}
