package server

import (
	"context"
	"log/slog"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

// resultWriter records results and fans out the side effects of a new one:
// the board's cached standings are dropped and live subscribers notified.
type resultWriter struct {
	store  Store
	broker *Broker
	cache  StandingsCache
	logger *slog.Logger
}

func (rw *resultWriter) record(ctx context.Context, board leaderboard.Board, player leaderboard.Player, res leaderboard.Result) (leaderboard.Result, bool, error) {
	res.BoardID = board.ID
	res.PlayerID = player.ID

	stored, duplicate, err := rw.store.RecordResult(ctx, res)
	if err != nil {
		return stored, false, err
	}
	if duplicate {
		rw.logger.Info("duplicate result ignored",
			"board", board.Slug,
			"player", player.Name,
			"result_id", stored.ID,
		)
		return stored, true, nil
	}

	rw.cache.Invalidate(ctx, board.Slug)
	rw.broker.Publish(board.ID, Event{
		Type:       eventResultRecorded,
		Board:      board.Slug,
		PlayerName: player.Name,
		ResultID:   stored.ID,
		TotalScore: stored.TotalScore,
		Source:     stored.Source,
	})
	rw.logger.Info("result recorded",
		"board", board.Slug,
		"player", player.Name,
		"result_id", stored.ID,
		"source", stored.Source,
		"total_score", stored.TotalScore,
	)
	return stored, false, nil
}
