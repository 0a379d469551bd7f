package store

import (
	"context"
	"sync"
)

// Memory is a process-local Driver. Its contents are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string][]byte)}
}

func (m *Memory) Namespace(name string) KV {
	return &memoryKV{m: m, ns: name}
}

func (m *Memory) Close() error {
	return nil
}

type memoryKV struct {
	m  *Memory
	ns string
}

func (kv *memoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	kv.m.mu.RLock()
	defer kv.m.mu.RUnlock()
	v, ok := kv.m.data[kv.ns][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (kv *memoryKV) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	kv.m.mu.Lock()
	defer kv.m.mu.Unlock()
	ns, ok := kv.m.data[kv.ns]
	if !ok {
		ns = make(map[string][]byte)
		kv.m.data[kv.ns] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

func (kv *memoryKV) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	kv.m.mu.Lock()
	defer kv.m.mu.Unlock()
	delete(kv.m.data[kv.ns], key)
	return nil
}
