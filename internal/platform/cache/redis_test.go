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

func TestFetchCachesValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSONCache(client, "test:", time.Minute)

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	ctx := context.Background()
	first, err := Fetch(ctx, c, "k", load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, "k", load)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Invalidate(ctx))
	_, err = Fetch(ctx, c, "k", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPropagatesLoaderError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSONCache(client, "test:", time.Minute)

	boom := errors.New("boom")
	_, err := Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mr.Keys())
}

func TestFetchWithoutClientCallsLoader(t *testing.T) {
	v, err := Fetch(context.Background(), nil, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidateDuringLoadDropsStaleWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSONCache(client, "test:", time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	proceed := make(chan struct{})
	done := make(chan []string)
	go func() {
		v, _ := Fetch(ctx, c, "k", func(context.Context) ([]string, error) {
			close(started)
			<-proceed
			return []string{"stale"}, nil
		})
		done <- v
	}()

	<-started
	require.NoError(t, c.Invalidate(ctx))
	close(proceed)
	assert.Equal(t, []string{"stale"}, <-done)

	fresh, err := Fetch(ctx, c, "k", func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, fresh)

	again, err := Fetch(ctx, c, "k", func(context.Context) ([]string, error) {
		return nil, errors.New("should be served from cache")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, again)
}

func TestInvalidateRemovesOldGenerations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSONCache(client, "test:", time.Minute)
	ctx := context.Background()

	_, err := Fetch(ctx, c, "k", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:g0:k"))

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists("test:g0:k"))
	gen, err := mr.Get("test:generation")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}
