package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "savory"
	redisPingTimeout = 5 * time.Second
)

// Redis is a Driver storing each entry under "savory:<namespace>:<key>".
type Redis struct {
	client *redis.Client
}

// OpenRedis connects to the server at rawURL and checks it is reachable.
func OpenRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Namespace(name string) KV {
	return &redisKV{client: r.client, prefix: redisKeyPrefix + ":" + name + ":"}
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisKV struct {
	client *redis.Client
	prefix string
}

func (kv *redisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	value, err := kv.client.Get(ctx, kv.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting %s%s: %w", kv.prefix, key, err)
	}
	return value, true, nil
}

func (kv *redisKV) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := kv.client.Set(ctx, kv.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s%s: %w", kv.prefix, key, err)
	}
	return nil
}

func (kv *redisKV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := kv.client.Del(ctx, kv.prefix+key).Err(); err != nil {
		return fmt.Errorf("deleting %s%s: %w", kv.prefix, key, err)
	}
	return nil
}
