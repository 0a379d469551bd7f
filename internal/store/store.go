// Package store holds the two small per-visitor stores of the application,
// the chef profile and the dark-mode preference, behind an injected
// key/value persistence adapter.
package store

import (
	"context"
	"errors"
)

// KV is a namespaced key/value adapter. Get reports false when the key is
// absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Driver hands out independent namespaces of one backing store.
type Driver interface {
	Namespace(name string) KV
	Close() error
}

const (
	profileNamespace = "profile"
	themeNamespace   = "theme"
)

var ErrEmptyKey = errors.New("empty key")
