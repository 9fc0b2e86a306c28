// Package cache provides the Redis client behind the rate limiter.
// It connects to an external Redis server when an address is configured and
// otherwise starts an embedded one (miniredis).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/quillpress/quillpress/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client and the embedded server, if one was started.
type Client struct {
	rdb  *redis.Client
	mini *miniredis.Miniredis
}

// NewClient connects to addr. An empty addr starts an embedded Redis.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		logger.Info("embedded redis started on", mr.Addr())
		return &Client{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()}), mini: mr}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.Info("connected to redis at", addr)
	return &Client{rdb: rdb}, nil
}

func (c *Client) IsEmbedded() bool {
	return c.mini != nil
}

// Hit counts one request against key within window and returns the count so
// far. The window starts at the first hit.
func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// TTL reports how long until key expires; zero when it has no expiry.
func (c *Client) TTL(ctx context.Context, key string) time.Duration {
	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Client) Close() error {
	err := c.rdb.Close()
	if c.mini != nil {
		c.mini.Close()
	}
	return err
}
