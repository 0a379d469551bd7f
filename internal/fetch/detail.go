package fetch

import (
	"context"
	"errors"
	"strings"

	"github.com/matt-dz/savorystories/internal/backend"
)

type State int

const (
	// StateLoading means nothing was resolved, including the empty slug case.
	StateLoading State = iota
	StateNotFound
	StatePresent
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotFound:
		return "not-found"
	case StatePresent:
		return "present"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

type Result[T any] struct {
	State State
	Value T
	Err   error
}

// DetailKey is the cache key of a single item looked up by slug.
func DetailKey(route, slug string) string {
	return Key(route, "slug", slug)
}

// Detail resolves one item by slug. No fetch is made for an empty slug.
func Detail[T any](
	ctx context.Context,
	c *Cache,
	route, slug string,
	fn func(ctx context.Context, slug string) (T, error),
) Result[T] {
	if strings.TrimSpace(slug) == "" {
		return Result[T]{State: StateLoading}
	}

	v, err := Get(ctx, c, DetailKey(route, slug), func(ctx context.Context) (T, error) {
		return fn(ctx, slug)
	})
	switch {
	case err == nil:
		return Result[T]{State: StatePresent, Value: v}
	case errors.Is(err, backend.ErrNotFound):
		return Result[T]{State: StateNotFound, Err: err}
	default:
		return Result[T]{State: StateFailed, Err: err}
	}
}
