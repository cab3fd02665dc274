package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/geoboard/leaderboard/internal/geoguessr"
)

const DefaultRedisKey = "geoboard:last-game"

// RedisStore keeps the slot under a single key, for collectors that run on
// more than one machine against the same board.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Get(ctx context.Context) (geoguessr.GameSummary, error) {
	var s geoguessr.GameSummary
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, ErrEmpty
	}
	if err != nil {
		return s, fmt.Errorf("reading slot %s: %w", r.key, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding slot %s: %w", r.key, err)
	}
	return s, nil
}

func (r *RedisStore) Set(ctx context.Context, s geoguessr.GameSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding slot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clearing slot %s: %w", r.key, err)
	}
	return nil
}
