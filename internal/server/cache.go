package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// StandingsCache holds rendered standings per board. Entries for a board are
// grouped so a single write can drop all of them.
type StandingsCache interface {
	Get(ctx context.Context, board, key string) ([]byte, bool)
	Set(ctx context.Context, board, key string, data []byte)
	Invalidate(ctx context.Context, board string)
}

// noCache is used when redis is not configured.
type noCache struct{}

func (noCache) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, string, []byte)         {}
func (noCache) Invalidate(context.Context, string)                  {}

// RedisCache stores each board's standings in one redis hash. Failures are
// logged and treated as misses; the database stays the source of truth.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func standingsKey(board string) string {
	return "geoboard:standings:" + board
}

func (c *RedisCache) Get(ctx context.Context, board, key string) ([]byte, bool) {
	data, err := c.client.HGet(ctx, standingsKey(board), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("standings cache read failed", "board", board, "error", err)
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, board, key string, data []byte) {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, standingsKey(board), key, data)
		p.Expire(ctx, standingsKey(board), c.ttl)
		return nil
	})
	if err != nil {
		c.logger.Warn("standings cache write failed", "board", board, "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, board string) {
	if err := c.client.Del(ctx, standingsKey(board)).Err(); err != nil {
		c.logger.Warn("standings cache invalidation failed", "board", board, "error", err)
	}
}
