package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wekesa360/todohub/internal/domain/todo"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// TodoLists caches per-owner todo listings in Redis. A nil *TodoLists is
// valid and disables caching, so handlers never have to branch on it.
type TodoLists struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg Config, ttl time.Duration) *TodoLists {
	if cfg.Addr == "" {
		return nil
	}

	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &TodoLists{rdb: rdb, ttl: ttl}
}

// this ping function checks redis connectivity

func (c *TodoLists) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *TodoLists) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get returns the cached listing for key, or ok=false on a miss or any
// redis/decode failure. Cache trouble never fails a request.
func (c *TodoLists) Get(ctx context.Context, key string) ([]todo.Todo, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()

	if err != nil {
		return nil, false
	}

	var items []todo.Todo

	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	return items, true
}

func (c *TodoLists) Set(ctx context.Context, key string, items []todo.Todo) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(items)

	if err != nil {
		return
	}

	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops the given listing keys; called on every todo mutation.
func (c *TodoLists) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}

	_ = c.rdb.Del(ctx, keys...).Err()
}
