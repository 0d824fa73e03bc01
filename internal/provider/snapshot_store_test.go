package provider

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRedisSnapshotStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	defer rdb.Close() //nolint:errcheck // test cleanup

	ctx := context.Background()
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC)
	snap := Snapshot{USDRate: 92.2628, EURRate: 98.7429}

	t.Run("empty store", func(t *testing.T) {
		mr.FlushAll()
		store := NewRedisSnapshotStore(rdb, time.Hour)

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save then load round trips exactly", func(t *testing.T) {
		mr.FlushAll()
		store := NewRedisSnapshotStore(rdb, time.Hour)

		require.NoError(t, store.Save(ctx, CacheEntry{Snapshot: snap, FetchedAt: fetchedAt}))

		entry, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, snap, entry.Snapshot)
		assert.True(t, entry.FetchedAt.Equal(fetchedAt))
	})

	t.Run("retention expires the hash", func(t *testing.T) {
		mr.FlushAll()
		store := NewRedisSnapshotStore(rdb, 10*time.Second)

		require.NoError(t, store.Save(ctx, CacheEntry{Snapshot: snap, FetchedAt: fetchedAt}))
		mr.FastForward(11 * time.Second)

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("partial hash is absent", func(t *testing.T) {
		mr.FlushAll()
		mr.HSet("rates_cache:{RUB}", "usd", "75")
		store := NewRedisSnapshotStore(rdb, time.Hour)

		_, ok, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backs the cached provider", func(t *testing.T) {
		mr.FlushAll()
		clock := &fakeClock{t: fetchedAt}
		mockProv := new(MockProvider)
		mockProv.On("FetchRates", mock.Anything).Return(snap, nil).Once()

		// Two providers sharing one Redis behave like two service instances.
		a := NewCachedRatesProvider(mockProv, NewRedisSnapshotStore(rdb, time.Hour), time.Hour, nil, WithClock(clock.Now))
		b := NewCachedRatesProvider(mockProv, NewRedisSnapshotStore(rdb, time.Hour), time.Hour, nil, WithClock(clock.Now))

		got1, err := a.FetchRates(ctx)
		require.NoError(t, err)
		got2, err := b.FetchRates(ctx)
		require.NoError(t, err)

		assert.Equal(t, got1, got2)
		mockProv.AssertNumberOfCalls(t, "FetchRates", 1)
	})
}

func TestMemorySnapshotStore(t *testing.T) {
	store := NewMemorySnapshotStore()
	ctx := context.Background()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	entry := CacheEntry{Snapshot: Snapshot{USDRate: 1, EURRate: 2}, FetchedAt: time.Unix(100, 0)}
	require.NoError(t, store.Save(ctx, entry))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry, got)
}
