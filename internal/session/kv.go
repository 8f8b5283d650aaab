// Package session persists per-conversation state in an external key-value
// store. Two logical namespaces share one store: conversation state lives
// under the raw session id, the session's backend cart id under a "cart_"
// prefixed key. Values are plain strings, written without TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the minimal key-value contract the store needs. The redis
// implementation is the production one; tests use an in-memory map.
type KV interface {
	// Get returns the value at key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value at key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
}

// RedisKV adapts a go-redis client to the KV interface.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV wraps an existing redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get implements KV. A missing key is not an error.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set implements KV. Values persist indefinitely (no TTL).
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// NewRedisClient connects to redis and verifies the connection with a short
// ping before returning.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
