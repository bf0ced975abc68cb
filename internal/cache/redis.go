// Package cache provides the Redis-backed session registry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key the registry writes.
const DefaultKeyPrefix = "travelog:"

// Options tunes the Redis connection pool and key namespace.
// Zero values fall back to the defaults in DefaultOptions.
type Options struct {
	PoolSize     int
	MinIdleConns int
	KeyPrefix    string
}

// DefaultOptions returns the pool settings used by the API server.
func DefaultOptions() Options {
	return Options{PoolSize: 10, MinIdleConns: 2, KeyPrefix: DefaultKeyPrefix}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PoolSize <= 0 {
		o.PoolSize = def.PoolSize
	}
	if o.MinIdleConns < 0 || o.MinIdleConns > o.PoolSize {
		o.MinIdleConns = min(def.MinIdleConns, o.PoolSize)
	}
	if o.KeyPrefix == "" {
		o.KeyPrefix = def.KeyPrefix
	}
	return o
}

// Cache holds live sessions in Redis.
type Cache struct {
	client *redis.Client
	prefix string
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts = opts.withDefaults()
	opt.PoolSize = opts.PoolSize
	opt.MinIdleConns = opts.MinIdleConns
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client, prefix: opts.KeyPrefix}, nil
}

// NewWithClient wraps an existing client. An empty prefix means DefaultKeyPrefix.
func NewWithClient(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client. Tests use it to flush state.
func (c *Cache) Client() *redis.Client {
	return c.client
}
