package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/adapters/memory"
	"github.com/aretw0/shelf/pkg/core"
)

func TestCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	medium := memory.New()
	cache := core.NewStore(medium, core.WithClock(clock)).Cache()

	require.NoError(t, cache.Put(ctx, "meals", []string{"a", "b"}, time.Minute))

	_, found, err := medium.Get(ctx, core.CachePrefix+"meals")
	require.NoError(t, err)
	require.True(t, found)

	var out []string
	ok, err := cache.Fetch(ctx, "meals", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, out)

	now = now.Add(2 * time.Minute)
	ok, err = cache.Fetch(ctx, "meals", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err = medium.Get(ctx, core.CachePrefix+"meals")
	require.NoError(t, err)
	assert.False(t, found, "expired entries are removed")
}

func TestCache_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := core.NewStore(memory.New(), core.WithClock(func() time.Time { return now })).Cache()

	require.NoError(t, cache.Put(ctx, "k", 1, 0))

	now = now.Add(core.DefaultCacheTTL - time.Second)
	ok, err := cache.Fetch(ctx, "k", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, err = cache.Fetch(ctx, "k", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Missing(t *testing.T) {
	ok, err := core.NewStore(memory.New()).Cache().Fetch(context.Background(), "nothing", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
