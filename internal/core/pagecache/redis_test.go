package pagecache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping Redis tests")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	require.NoError(t, client.Ping(context.Background()).Err())

	store := NewRedisStoreWithClient(client, "quill:test:"+t.Name()+":", nil)
	t.Cleanup(func() {
		_ = store.Clear(context.Background())
		_ = store.Close()
	})
	return store
}

func TestRedisStore_GetSetClear(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "/|")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "/|", []byte("page"), time.Minute))
	require.NoError(t, store.Set(ctx, "/?page=2|", []byte("page 2"), time.Minute))

	got, ok, err := store.Get(ctx, "/|")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("page"), got)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Get(ctx, "/?page=2|")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Expiry(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("x"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url", nil)
	assert.Error(t, err)
}
