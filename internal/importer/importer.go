package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geoboard/leaderboard/internal/destination"
	"github.com/geoboard/leaderboard/internal/geoguessr"
	"github.com/geoboard/leaderboard/internal/slot"
)

type Submitter interface {
	Submit(ctx context.Context, p geoguessr.ImportPayload) (Result, error)
}

// Importer is the user-triggered half of the pipeline. The slot is read but
// never cleared, so a failed import can be retried as is.
type Importer struct {
	store  slot.Store
	client Submitter
	logger *slog.Logger
}

func New(store slot.Store, client Submitter, logger *slog.Logger) *Importer {
	return &Importer{store: store, client: client, logger: logger}
}

func (i *Importer) Import(ctx context.Context, dest destination.Context) (Result, error) {
	player := strings.TrimSpace(dest.PlayerName)
	board := strings.TrimSpace(dest.BoardSlug)
	if player == "" {
		return Result{}, fmt.Errorf("%w: player name", destination.ErrMissingContext)
	}
	if board == "" {
		return Result{}, fmt.Errorf("%w: board", destination.ErrMissingContext)
	}

	summary, err := i.store.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading stored game: %w", err)
	}

	payload := geoguessr.BuildPayload(summary, player, board)
	res, err := i.client.Submit(ctx, payload)
	if err != nil {
		i.logger.Warn("import failed", "board", board, "player", player, "error", err)
		return Result{}, err
	}

	i.logger.Info("game imported",
		"board", board,
		"player", player,
		"result_id", res.ResultID,
		"duplicate", res.Duplicate,
	)
	return res, nil
}

// HumanMessage renders err for the person who clicked import.
func HumanMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	var transportErr *TransportError
	switch {
	case errors.Is(err, destination.ErrMissingContext):
		return "Open your board on the leaderboard site and sign in before importing."
	case errors.Is(err, slot.ErrEmpty):
		return "No GeoGuessr game has been captured yet. Finish a game and try again."
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return "The board was not found: " + statusErr.Message
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return "The board service rejected this game: " + statusErr.Message
		}
		if statusErr.StatusCode >= 500 {
			return "The board service had a problem. Your game is still saved, try importing again."
		}
		return fmt.Sprintf("Import failed (%d): %s", statusErr.StatusCode, statusErr.Message)
	case errors.As(err, &transportErr):
		return "Could not reach the board service. Your game is still saved, try importing again."
	}
	return "Import failed: " + err.Error()
}
