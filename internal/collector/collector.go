// Package collector runs the extraction pipeline over each observed page
// document and keeps the slot up to date with the latest game.
package collector

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/geoboard/leaderboard/internal/geoguessr"
	"github.com/geoboard/leaderboard/internal/slot"
)

// Outcome describes what Handle did with one document.
type Outcome int

const (
	// NoState: the document has no embedded state element.
	NoState Outcome = iota
	// Malformed: the state element could not be parsed.
	Malformed
	// NoGame: the state holds no game, e.g. an unrelated page.
	NoGame
	// Unchanged: the game signature matches the last stored extraction.
	Unchanged
	Stored
	// StoreFailed: extraction succeeded but the slot write failed.
	StoreFailed
)

var outcomeNames = map[Outcome]string{
	NoState:     "no_state",
	Malformed:   "malformed",
	NoGame:      "no_game",
	Unchanged:   "unchanged",
	Stored:      "stored",
	StoreFailed: "store_failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Collector is driven by a single observer loop and is not safe for
// concurrent use.
type Collector struct {
	store    slot.Store
	logger   *slog.Logger
	detector geoguessr.Detector
}

func New(store slot.Store, logger *slog.Logger) *Collector {
	return &Collector{store: store, logger: logger}
}

// Handle runs one extraction cycle. Storage failures are logged and
// reported through the outcome, never returned.
func (c *Collector) Handle(ctx context.Context, doc []byte) Outcome {
	text, ok, err := geoguessr.StateText(bytes.NewReader(doc))
	if err != nil {
		c.logger.Warn("parsing page document", "error", err)
		return Malformed
	}
	if !ok || len(bytes.TrimSpace(text)) == 0 {
		return NoState
	}

	state, ok := geoguessr.ParseState(text, c.logger)
	if !ok {
		return Malformed
	}

	sig, ok := geoguessr.Signature(state)
	if !ok {
		c.logger.Debug("no game in page state")
		return NoGame
	}
	if !c.detector.Changed(sig) {
		return Unchanged
	}

	summary, ok := geoguessr.Extract(state)
	if !ok {
		return NoGame
	}
	c.detector.Commit(sig)

	if err := c.store.Set(ctx, summary); err != nil {
		c.logger.Error("storing game summary", "signature", sig, "error", err)
		return StoreFailed
	}

	c.logger.Info("game summary stored",
		"signature", sig,
		"mode", summary.Mode,
		"rounds", len(summary.Rounds),
	)
	return Stored
}

// Reset makes the next document extract regardless of its signature.
func (c *Collector) Reset() {
	c.detector.Reset()
}
