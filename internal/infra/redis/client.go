// Package redis provides the optional idempotency store: successful
// checkout responses are cached by idempotency key so a retried request
// replays the stored session instead of creating a duplicate.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration. An empty URL disables the
// idempotency store entirely.
type Config struct {
	URL            string        `yaml:"url"`
	Password       string        `yaml:"password"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

const defaultIdempotencyTTL = 24 * time.Hour

// Client wraps Redis operations for idempotency-key replay.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func sessionKey(idempotencyKey string) string {
	return fmt.Sprintf("checkout:idem:%s", idempotencyKey)
}

// LookupSession returns the stored checkout response for an idempotency
// key, if one exists.
func (c *Client) LookupSession(ctx context.Context, idempotencyKey string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, sessionKey(idempotencyKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get failed: %w", err)
	}
	return val, true, nil
}

// StoreSession records a successful checkout response for replay. The
// entry expires after the configured TTL.
func (c *Client) StoreSession(ctx context.Context, idempotencyKey string, response []byte) error {
	if err := c.rdb.Set(ctx, sessionKey(idempotencyKey), response, c.ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}
