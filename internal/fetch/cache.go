// Package fetch is a small keyed data-fetching cache. Identical keys share
// one in-flight request and its result; distinct keys fetch independently.
// Mutations invalidate by route so the next read refetches.
package fetch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const keySep = "\x1f"

type entry struct {
	value   any
	expires time.Time
}

type Cache struct {
	entries *lru.Cache
	ttl     time.Duration
	group   singleflight.Group
	// epoch changes on every invalidation. A fetch started under an older
	// epoch is still returned to its callers but never stored.
	epoch atomic.Uint64
	now   func() time.Time
}

// New creates a cache holding at most size entries. Entries expire after
// ttl; a ttl of zero keeps them until evicted or invalidated.
func New(size int, ttl time.Duration) (*Cache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru: %w", err)
	}
	return &Cache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Key builds a cache key from a route and the values that select the data.
func Key(route string, parts ...any) string {
	var b strings.Builder
	b.WriteString(route)
	for _, p := range parts {
		b.WriteString(keySep)
		fmt.Fprint(&b, p)
	}
	return b.String()
}

func routeOf(key string) string {
	route, _, _ := strings.Cut(key, keySep)
	return route
}

func (c *Cache) lookup(key string) (any, bool) {
	raw, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	e := raw.(entry)
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.entries.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) store(key string, value any, epoch uint64) {
	if c.epoch.Load() != epoch {
		return
	}
	e := entry{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries.Add(key, e)
}

// Invalidate drops every entry whose route is route or lies below it, so
// Invalidate("recipes") also drops "recipes/my-recipes".
func (c *Cache) Invalidate(route string) {
	c.epoch.Add(1)
	for _, k := range c.entries.Keys() {
		key, ok := k.(string)
		if !ok {
			continue
		}
		r := routeOf(key)
		if r == route || strings.HasPrefix(r, route+"/") {
			c.entries.Remove(key)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Get returns the cached value for key or calls fn once for all concurrent
// callers of the same key. fn runs with a context that keeps the values of
// ctx but not its cancellation, so one caller going away does not fail the
// others. Errors are never cached.
func Get[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.lookup(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	epoch := c.epoch.Load()
	flight := key + keySep + "#" + strconv.FormatUint(epoch, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, v, epoch)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		typed, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cached value for %q has type %T", key, res.Val)
		}
		return typed, nil
	}
}
