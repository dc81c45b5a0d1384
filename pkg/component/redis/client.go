// Package redis provides a Redis client used for caching answer responses.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	redisopts "github.com/thrust-io/briefd/pkg/options/redis"
)

// Client wraps the go-redis client.
type Client struct {
	client *redis.Client
	opts   *redisopts.Options
}

// New creates a new Redis client and verifies connectivity.
func New(ctx context.Context, opts *redisopts.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options is nil")
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.Database,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{
		client: client,
		opts:   opts,
	}, nil
}

// RawClient returns the underlying go-redis client.
func (c *Client) RawClient() *redis.Client {
	return c.client
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
