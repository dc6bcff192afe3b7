package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client used for the session-scoped profile cache
type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
}

// Cache key templates
const (
	KeyUserProfile    = "profile:%s"    // profile:{userID}
	KeyOnboardingData = "onboarding:%s" // onboarding:{userID}
)

// TTL constants. These bound every cached value; nothing outlives its TTL,
// keeping the cache a session convenience rather than storage.
const (
	TTLUserProfile    = 15 * time.Minute
	TTLOnboardingData = 30 * time.Minute
)

// NewClient creates a new Redis client
func NewClient(redisURL, environment string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &Client{
		rdb:        redis.NewClient(opts),
		KeyBuilder: NewKeyBuilder(environment),
	}, nil
}

// Get retrieves a value; a missing key returns redis.Nil as the error
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores a value with an expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Exists reports how many of the given keys exist
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	return c.rdb.Exists(ctx, keys...).Result()
}

// IsNil reports whether err is the cache-miss sentinel
func IsNil(err error) bool {
	return err == redis.Nil
}

// Health pings the server
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
