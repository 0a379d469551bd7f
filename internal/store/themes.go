package store

import (
	"context"
	"strconv"
	"sync"
)

// Themes remembers whether each visitor prefers dark mode. Light is the
// default.
type Themes struct {
	kv KV

	mu    sync.Mutex
	locks map[string]*visitorLock
}

type visitorLock struct {
	sync.Mutex
	refs int
}

func NewThemes(d Driver) *Themes {
	return &Themes{
		kv:    d.Namespace(themeNamespace),
		locks: make(map[string]*visitorLock),
	}
}

// lock serialises one visitor's read-modify-write within this process and
// returns the unlock func. Entries are dropped once nobody waits on them.
func (t *Themes) lock(visitor string) func() {
	t.mu.Lock()
	l, ok := t.locks[visitor]
	if !ok {
		l = &visitorLock{}
		t.locks[visitor] = l
	}
	l.refs++
	t.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, visitor)
		}
		t.mu.Unlock()
	}
}

func (t *Themes) IsDark(ctx context.Context, visitor string) (bool, error) {
	raw, ok, err := t.kv.Get(ctx, visitor)
	if err != nil || !ok {
		return false, err
	}
	dark, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, nil
	}
	return dark, nil
}

func (t *Themes) Set(ctx context.Context, visitor string, dark bool) error {
	return t.kv.Set(ctx, visitor, []byte(strconv.FormatBool(dark)))
}

// Toggle flips the preference and returns the new value. Concurrent toggles
// by one visitor are applied one after the other.
func (t *Themes) Toggle(ctx context.Context, visitor string) (bool, error) {
	defer t.lock(visitor)()

	dark, err := t.IsDark(ctx, visitor)
	if err != nil {
		return false, err
	}
	if err := t.Set(ctx, visitor, !dark); err != nil {
		return false, err
	}
	return !dark, nil
}
