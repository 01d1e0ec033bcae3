package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/catalog/mock"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached_AllIsServedFromCache(t *testing.T) {
	ctx := context.Background()
	backend := mock.NewMockCatalog(card.Named("Opt"), card.Named("Shock"))
	cached := catalog.NewCached(backend, &config.CacheConfig{Type: config.CacheTypeMemory})

	first, err := cached.All(ctx)
	require.NoError(t, err)
	second, err := cached.All(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.AllCalls)
}

func TestCached_WarmReloads(t *testing.T) {
	ctx := context.Background()
	backend := mock.NewMockCatalog(card.Named("Opt"))
	cached := catalog.NewCached(backend, nil)

	cards, err := cached.All(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	backend.Add(card.Named("Shock"))
	require.NoError(t, cached.Warm(ctx))

	cards, err = cached.All(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, 2, backend.AllCalls)
}

func TestCached_WarmDropsSearches(t *testing.T) {
	ctx := context.Background()
	backend := mock.NewMockCatalog(card.Named("Opt"))
	cached := catalog.NewCached(backend, nil)

	cards, err := cached.FindByName(ctx, "o")
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	backend.Add(card.Named("Ornithopter"))
	cards, err = cached.FindByName(ctx, "o")
	require.NoError(t, err)
	assert.Len(t, cards, 1, "served from cache")

	require.NoError(t, cached.Warm(ctx))
	cards, err = cached.FindByName(ctx, "o")
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}

func TestCached_FindExact(t *testing.T) {
	ctx := context.Background()
	backend := mock.NewMockCatalog(card.Named("Opt"))
	cached := catalog.NewCached(backend, nil)

	c, err := cached.FindExact(ctx, "Opt")
	require.NoError(t, err)
	assert.Equal(t, "Opt", c.Name)

	// served from cache even when the backend fails now
	backend.FindExactError = errors.New("db down")
	c, err = cached.FindExact(ctx, "Opt")
	require.NoError(t, err)
	assert.Equal(t, "Opt", c.Name)

	backend.FindExactError = nil
	_, err = cached.FindExact(ctx, "Shock")
	assert.ErrorIs(t, err, catalog.ErrCardNotFound)
}

func TestCached_FindByNamePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	backend := mock.NewMockCatalog(card.Named("Opt"))
	backend.FindByNameError = errors.New("db down")
	cached := catalog.NewCached(backend, nil)

	_, err := cached.FindByName(ctx, "op")
	require.Error(t, err)

	backend.FindByNameError = nil
	cards, err := cached.FindByName(ctx, "OP")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}
