package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/deduct_level.lua
var deductLevelScript string

// Client mirrors tracked stock levels in Redis so multiple terminals can
// share low-stock state, and holds idempotency keys for the sale endpoint.
type Client struct {
	rdb          *redis.Client
	deductScript *redis.Script
}

// NewClient creates a new Redis client with the level script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:          rdb,
		deductScript: redis.NewScript(deductLevelScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func levelKey(product string) string {
	return fmt.Sprintf("stock:level:%s", strings.ToLower(product))
}

// InitLevel sets the tracked level for a product
func (c *Client) InitLevel(ctx context.Context, product string, level int) error {
	return c.rdb.Set(ctx, levelKey(product), level, 0).Err()
}

// DeductLevel atomically lowers a product's tracked level, flooring at
// zero. Returns the new level, or -1 if the product is not tracked.
func (c *Client) DeductLevel(ctx context.Context, product string, qty int) (int, error) {
	result, err := c.deductScript.Run(ctx, c.rdb, []string{levelKey(product)}, qty).Result()
	if err != nil {
		return 0, fmt.Errorf("deduct level script failed: %w", err)
	}

	level, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type")
	}
	return int(level), nil
}

// GetLevel retrieves a product's tracked level
func (c *Client) GetLevel(ctx context.Context, product string) (int, error) {
	level, err := c.rdb.Get(ctx, levelKey(product)).Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("level not tracked for product %s", product)
	}
	return level, err
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// AcquireLock acquires a per-terminal lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a per-terminal lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
