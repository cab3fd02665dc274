package server

import (
	"encoding/json"
	"sync"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

const eventResultRecorded = "result_recorded"

// Event is the payload published to board subscribers.
type Event struct {
	Type       string             `json:"type"`
	Board      string             `json:"board"`
	PlayerName string             `json:"player_name"`
	ResultID   string             `json:"result_id"`
	TotalScore int                `json:"total_score"`
	Source     leaderboard.Source `json:"source"`
}

// Broker is an in-process pub/sub for live standings feeds, keyed by board
// ID. SSE and websocket subscribers share it.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the board.
func (b *Broker) Subscribe(boardID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[chan []byte]struct{})
	}
	b.subs[boardID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(boardID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[boardID], ch)
	if len(b.subs[boardID]) == 0 {
		delete(b.subs, boardID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the board. Slow subscribers
// miss events rather than block the writer.
func (b *Broker) Publish(boardID string, event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[boardID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

func (b *Broker) Subscribers(boardID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[boardID])
}
