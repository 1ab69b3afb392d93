package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwhited/todo-digest/internal/models"
	"github.com/redis/go-redis/v9"
)

const todoListKey = "todos:list"

// RedisTodoCache caches the full ordered todo list in Redis under a single
// short-TTL key. Mutations invalidate the key and rewrite it with fresh rows;
// a reader racing a mutation can still repopulate it with an older snapshot,
// so staleness is bounded by the TTL, not eliminated.
type RedisTodoCache struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection with a ping
func New(redisURL string) (*RedisTodoCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisTodoCache{rdb: client}, nil
}

// GetList returns the cached todo list, or (nil, nil) on a cache miss
func (c *RedisTodoCache) GetList(ctx context.Context) ([]*models.Todo, error) {
	val, err := c.rdb.Get(ctx, todoListKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var todos []*models.Todo
	if err := json.Unmarshal([]byte(val), &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// SetList stores the todo list with the given TTL
func (c *RedisTodoCache) SetList(ctx context.Context, todos []*models.Todo, ttl time.Duration) error {
	data, err := json.Marshal(todos)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, todoListKey, data, ttl).Err()
}

// InvalidateList drops the cached list
func (c *RedisTodoCache) InvalidateList(ctx context.Context) error {
	return c.rdb.Del(ctx, todoListKey).Err()
}

// Ping verifies the Redis connection
func (c *RedisTodoCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client
func (c *RedisTodoCache) Close() error {
	return c.rdb.Close()
}
