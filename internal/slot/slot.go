// Package slot holds the most recent game summary between extraction and the
// user-triggered import. There is exactly one slot: every Set overwrites it
// and Get never clears it, so a failed import can be retried.
package slot

import (
	"context"
	"errors"
	"sync"

	"github.com/geoboard/leaderboard/internal/geoguessr"
)

var ErrEmpty = errors.New("no game stored")

type Store interface {
	Get(ctx context.Context) (geoguessr.GameSummary, error)
	Set(ctx context.Context, s geoguessr.GameSummary) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the slot in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	val *geoguessr.GameSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (geoguessr.GameSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.val == nil {
		return geoguessr.GameSummary{}, ErrEmpty
	}
	return *m.val, nil
}

func (m *MemoryStore) Set(_ context.Context, s geoguessr.GameSummary) error {
	m.mu.Lock()
	m.val = &s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.val = nil
	m.mu.Unlock()
	return nil
}
