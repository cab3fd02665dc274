package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geoboard/leaderboard/internal/leaderboard"
	"github.com/geoboard/leaderboard/internal/metrics"
)

// EntryRequest is the request body for POST /api/boards/{board}/entries.
type EntryRequest struct {
	Scores []int `json:"scores" validate:"min=1,max=5,dive,gte=0,lte=5000"`
}

// EntryResponse is the response for POST /api/boards/{board}/entries.
type EntryResponse struct {
	ResultID   string `json:"result_id"`
	TotalScore int    `json:"total_score"`
	PlayedOn   string `json:"played_on"`
}

// handleCreateEntry records hand-typed round scores for the signed-in
// player, at most once per board per UTC day.
func handleCreateEntry(logger *slog.Logger, store Store, results *resultWriter, m *metrics.Metrics, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "sign in to add an entry")
			return
		}

		var req EntryRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		board := boardFrom(r)
		res := leaderboard.Result{
			Source:   leaderboard.SourceManual,
			PlayedOn: leaderboard.Day(now()),
			Rounds:   make([]leaderboard.Round, 0, len(req.Scores)),
		}
		for i, score := range req.Scores {
			res.TotalScore += score
			res.Rounds = append(res.Rounds, leaderboard.Round{Number: i + 1, Score: &score})
		}

		stored, _, err := results.record(r.Context(), board, player, res)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "you already added an entry to this board today")
			return
		}
		if err != nil {
			logger.Error("recording entry", "board", board.Slug, "player", player.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		m.ManualEntries.Inc()
		writeJSON(w, http.StatusCreated, EntryResponse{
			ResultID:   stored.ID,
			TotalScore: stored.TotalScore,
			PlayedOn:   stored.PlayedOn,
		})
	}
}
