// Package redis dials the connection used by the Redis ledger backend.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"shipcertify/internal/platform/config"
)

// Client wraps go-redis with a health probe for readiness checks.
type Client struct {
	*redis.Client
}

// New dials Redis from the ledger configuration and verifies the connection
// with a PING before handing it out. An empty URL means the backend is not
// configured; both return values are nil in that case.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers PING.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
