package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k1", sample{Name: "rice", Count: 2}, time.Minute))

		var got sample
		require.NoError(t, store.Get(ctx, "k1", &got))
		assert.Equal(t, sample{Name: "rice", Count: 2}, got)
		assert.Equal(t, time.Minute, mr.TTL("k1"))
	})

	t.Run("NoTTL", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k2", true, 0))
		assert.Equal(t, time.Duration(0), mr.TTL("k2"))
	})

	t.Run("Missing", func(t *testing.T) {
		var got sample
		err := store.Get(ctx, "missing", &got)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CorruptValue", func(t *testing.T) {
		require.NoError(t, mr.Set("bad", "{not json"))

		var got sample
		err := store.Get(ctx, "bad", &got)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("Expired", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", sample{Name: "milk"}, time.Second))
		mr.FastForward(2 * time.Second)

		var got sample
		assert.ErrorIs(t, store.Get(ctx, "short", &got), ErrNotFound)
	})
}

func TestRedisStore_DeleteExists(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", 1, 0))
	require.NoError(t, store.Set(ctx, "b", 2, 0))

	ok, err := store.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "a", "b"))
	require.NoError(t, store.Delete(ctx))

	ok, err = store.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	var got sample
	err := store.Get(context.Background(), "k", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(context.Background(), RedisOptions{Addr: mr.Addr()})
		require.NoError(t, err)
		assert.NoError(t, client.Close())
	})

	t.Run("Unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisClient(context.Background(), RedisOptions{Addr: addr})
		assert.Error(t, err)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "local:dev-1:cart", LocalCartKey("dev-1"))
	assert.Equal(t, "session:tab-1:shipping", SessionKey("tab-1", SlotShipping))
}
