package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis commands the store uses.
// *redis.Client and *redis.ClusterClient both satisfy it.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore is a Redis-backed snapshot store for multi-server
// deployments with shared registry state.
type RedisStore struct {
	client RedisClient
	prefix string
	closed bool
}

// RedisStoreOption configures RedisStore behavior.
type RedisStoreOption func(*redisStoreConfig)

type redisStoreConfig struct {
	prefix string
}

// WithRedisPrefix sets the key prefix for snapshot keys.
// Default: "livedom:display:".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(c *redisStoreConfig) {
		c.prefix = prefix
	}
}

// NewRedisStore creates a new Redis-backed snapshot store.
func NewRedisStore(client RedisClient, opts ...RedisStoreOption) *RedisStore {
	cfg := &redisStoreConfig{
		prefix: "livedom:display:",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.prefix,
	}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Save stores a snapshot with an expiration time.
func (r *RedisStore) Save(ctx context.Context, id string, doc []byte, expiresAt time.Time) error {
	if r.closed {
		return ErrStoreClosed
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, delete instead
		return r.Delete(ctx, id)
	}

	return r.client.Set(ctx, r.key(id), doc, ttl).Err()
}

// Load retrieves a snapshot if it exists.
func (r *RedisStore) Load(ctx context.Context, id string) ([]byte, error) {
	if r.closed {
		return nil, ErrStoreClosed
	}

	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a snapshot from Redis.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if r.closed {
		return ErrStoreClosed
	}

	return r.client.Del(ctx, r.key(id)).Err()
}

// Close marks the store as closed. It does not close the underlying
// Redis client, which may be shared with other components.
func (r *RedisStore) Close() error {
	r.closed = true
	return nil
}

// Prefix returns the current key prefix. For testing/debugging.
func (r *RedisStore) Prefix() string {
	return r.prefix
}
