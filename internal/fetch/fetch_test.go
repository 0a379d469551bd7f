package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-dz/savorystories/internal/backend"
)

func newCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(16, ttl)
	require.NoError(t, err)
	return c
}

func TestGetCachesByKey(t *testing.T) {
	c := newCache(t, 0)
	var calls atomic.Int32
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	for range 3 {
		v, err := Get(context.Background(), c, Key("recipes", 1, "", "newest", 6), fn)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, int32(1), calls.Load())

	_, err := Get(context.Background(), c, Key("recipes", 2, "", "newest", 6), fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "a different tuple fetches again")
}

func TestGetSharesInFlight(t *testing.T) {
	c := newCache(t, 0)
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Get(context.Background(), c, "shared", fn)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := newCache(t, 0)
	var calls atomic.Int32
	fn := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("boom")
		}
		return 7, nil
	}

	_, err := Get(context.Background(), c, "k", fn)
	require.Error(t, err)
	v, err := Get(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGetExpires(t *testing.T) {
	c := newCache(t, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls atomic.Int32
	fn := func(context.Context) (int, error) { return int(calls.Add(1)), nil }

	v, _ := Get(context.Background(), c, "k", fn)
	assert.Equal(t, 1, v)
	now = now.Add(30 * time.Second)
	v, _ = Get(context.Background(), c, "k", fn)
	assert.Equal(t, 1, v)
	now = now.Add(time.Minute)
	v, _ = Get(context.Background(), c, "k", fn)
	assert.Equal(t, 2, v)
}

func TestInvalidateByRoute(t *testing.T) {
	c := newCache(t, 0)
	fn := func(context.Context) (int, error) { return 1, nil }

	for _, key := range []string{
		Key("recipes", 1, "", "newest", 6),
		DetailKey("recipes", "soup"),
		Key("recipes/my-recipes", "abc"),
		Key("blogs", 1, "", "newest", 6),
		Key("recipes-archive", 1),
	} {
		_, err := Get(context.Background(), c, key, fn)
		require.NoError(t, err)
	}
	require.Equal(t, 5, c.Len())

	c.Invalidate("recipes")
	assert.Equal(t, 2, c.Len())
	_, ok := c.lookup(Key("blogs", 1, "", "newest", 6))
	assert.True(t, ok)
	_, ok = c.lookup(Key("recipes-archive", 1))
	assert.True(t, ok)
}

func TestInvalidateDuringFetchDropsStaleResult(t *testing.T) {
	c := newCache(t, 0)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int)
	go func() {
		v, _ := Get(context.Background(), c, "k", func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-started
	c.Invalidate("k")
	close(release)
	assert.Equal(t, 1, <-done)

	v, err := Get(context.Background(), c, "k", func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v, "value fetched before the invalidation is not stored")
}

func TestGetCallerCancellation(t *testing.T) {
	c := newCache(t, 0)
	release := make(chan struct{})
	var sawCancel atomic.Bool
	fn := func(ctx context.Context) (int, error) {
		<-release
		sawCancel.Store(ctx.Err() != nil)
		return 3, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, err := Get(ctx, c, "k", fn)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	v, err := Get(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.False(t, sawCancel.Load(), "shared fetch must not inherit caller cancellation")
}

func TestDetail(t *testing.T) {
	c := newCache(t, 0)
	var calls atomic.Int32
	lookup := func(_ context.Context, slug string) (string, error) {
		calls.Add(1)
		switch slug {
		case "soup":
			return "Soup", nil
		case "broken":
			return "", errors.New("connection refused")
		case "null":
			return "", fmt.Errorf("getting recipes %q: empty record: %w", slug, backend.ErrNotFound)
		}
		return "", &backend.APIError{Status: 404, Message: "Not found"}
	}

	empty := Detail(context.Background(), c, "recipes", "", lookup)
	assert.Equal(t, StateLoading, empty.State)
	assert.Equal(t, int32(0), calls.Load(), "no fetch for an empty slug")

	present := Detail(context.Background(), c, "recipes", "soup", lookup)
	assert.Equal(t, StatePresent, present.State)
	assert.Equal(t, "Soup", present.Value)

	missing := Detail(context.Background(), c, "recipes", "nope", lookup)
	assert.Equal(t, StateNotFound, missing.State)

	failed := Detail(context.Background(), c, "recipes", "broken", lookup)
	assert.Equal(t, StateFailed, failed.State)
	assert.Error(t, failed.Err)

	blank := Detail(context.Background(), c, "recipes", "null", lookup)
	assert.Equal(t, StateNotFound, blank.State, "an empty record is not present")
	assert.Empty(t, blank.Value)

	assert.Equal(t, int32(4), calls.Load())
}
