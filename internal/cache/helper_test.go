package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedPhoto struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, PhotoKey(5), &cachedPhoto{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, PhotoKey(5), cachedPhoto{ID: 5, Title: "Sunset"}, PhotoTTL))

	var got cachedPhoto
	found, err = GetJSON(ctx, PhotoKey(5), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Sunset", got.Title)
}

func TestAside(t *testing.T) {
	t.Run("Miss Fetches And Caches", func(t *testing.T) {
		withTestRedis(t)
		ctx := context.Background()

		calls := 0
		var dest cachedPhoto
		fetch := func() error {
			calls++
			dest = cachedPhoto{ID: 5, Title: "Sunset"}
			return nil
		}

		require.NoError(t, Aside(ctx, PhotoKey(5), &dest, PhotoTTL, fetch))
		assert.Equal(t, 1, calls)
		assert.Equal(t, "Sunset", dest.Title)

		// second call must be served from cache
		var again cachedPhoto
		require.NoError(t, Aside(ctx, PhotoKey(5), &again, PhotoTTL, fetch))
		assert.Equal(t, 1, calls)
		assert.Equal(t, "Sunset", again.Title)
	})

	t.Run("Fetch Error Propagates", func(t *testing.T) {
		withTestRedis(t)

		var dest cachedPhoto
		err := Aside(context.Background(), PhotoKey(9), &dest, PhotoTTL, func() error {
			return errors.New("db down")
		})
		assert.Error(t, err)
	})

	t.Run("Nil Client Degrades To Fetch", func(t *testing.T) {
		SetClient(nil)

		calls := 0
		var dest cachedPhoto
		fetch := func() error {
			calls++
			dest = cachedPhoto{ID: 5, Title: "Sunset"}
			return nil
		}

		require.NoError(t, Aside(context.Background(), PhotoKey(5), &dest, PhotoTTL, fetch))
		require.NoError(t, Aside(context.Background(), PhotoKey(5), &dest, PhotoTTL, fetch))
		assert.Equal(t, 2, calls)
	})
}

func TestInvalidatePhoto(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PhotoKey(5), cachedPhoto{ID: 5}, PhotoTTL))
	require.NoError(t, SetJSON(ctx, PhotoListKey(), []cachedPhoto{{ID: 5}}, PhotoListTTL))

	InvalidatePhoto(ctx, 5)

	assert.False(t, mr.Exists(PhotoKey(5)))
	assert.False(t, mr.Exists(PhotoListKey()))
}

func TestCacheExpiry(t *testing.T) {
	mr := withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PhotoListKey(), []cachedPhoto{{ID: 1}}, time.Minute))
	mr.FastForward(2 * time.Minute)

	found, err := GetJSON(ctx, PhotoListKey(), &[]cachedPhoto{})
	require.NoError(t, err)
	assert.False(t, found)
}
