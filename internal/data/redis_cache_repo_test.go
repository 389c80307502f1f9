package data

import (
	"context"
	"testing"
	"time"

	"github.com/lovenote/lovenote-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client, "test:cache:")
	ctx := context.Background()

	t.Run("set and get with ttl", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "categories", []byte(`[]`), 5*time.Minute))

		got, err := repo.Get(ctx, "categories")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)

		ttl := client.TTL(ctx, "test:cache:categories").Val()
		assert.True(t, ttl > 0 && ttl <= 5*time.Minute)
	})

	t.Run("missing key returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "gone", []byte("x"), time.Minute))

		deleted, err := repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := repo.Get(ctx, "")
		require.ErrorIs(t, err, ErrEmptyCacheKey)
		require.ErrorIs(t, repo.Set(ctx, "", nil, time.Minute), ErrEmptyCacheKey)
	})

	t.Run("health", func(t *testing.T) {
		require.NoError(t, repo.Health(ctx))
	})
}
