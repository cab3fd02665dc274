package slot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoboard/leaderboard/internal/geoguessr"
)

func summary(token string, score int) geoguessr.GameSummary {
	return geoguessr.GameSummary{
		Mode:       geoguessr.ModeClassic,
		GameToken:  &token,
		TotalScore: &score,
		Rounds:     []geoguessr.RoundResult{{RoundNumber: 1, Score: &score}},
	}
}

func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, s.Set(ctx, summary("first", 100)))
	require.NoError(t, s.Set(ctx, summary("second", 200)))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", *got.GameToken, "last write wins")

	again, err := s.Get(ctx)
	require.NoError(t, err, "get does not clear")
	assert.Equal(t, got, again)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, s.Clear(ctx), "clearing an empty slot is fine")
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	testStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "last_game.json")))
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_game.json")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, summary("tok", 1234)))

	got, err := NewFileStore(path).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234, *got.TotalScore)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_game.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmpty)
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
	defer client.Close()

	s := NewRedisStore(client, "")
	ctx := context.Background()

	_, err := s.Get(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmpty)
	assert.Error(t, s.Set(ctx, summary("tok", 1)))
	assert.Contains(t, s.Clear(ctx).Error(), DefaultRedisKey)
}
