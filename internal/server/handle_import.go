package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geoboard/leaderboard/internal/leaderboard"
	"github.com/geoboard/leaderboard/internal/metrics"
)

// ImportRound is one round of an imported game. Skipped rounds carry nulls.
type ImportRound struct {
	Score          *int     `json:"score" validate:"omitnil,gte=0,lte=5000"`
	DistanceMeters *float64 `json:"distance_m" validate:"omitnil,gte=0"`
	GuessLat       *float64 `json:"guess_lat" validate:"omitnil,gte=-90,lte=90"`
	GuessLng       *float64 `json:"guess_lng" validate:"omitnil,gte=-180,lte=180"`
	TargetLat      *float64 `json:"target_lat" validate:"omitnil,gte=-90,lte=90"`
	TargetLng      *float64 `json:"target_lng" validate:"omitnil,gte=-180,lte=180"`
}

// ImportRequest is the request body for POST /api/import.
type ImportRequest struct {
	PlayerName          string        `json:"player_name" validate:"required,max=80"`
	BoardSlug           string        `json:"board_slug" validate:"required,max=40"`
	TotalScore          int           `json:"total_score" validate:"gte=0"`
	TotalDistanceMeters float64       `json:"total_distance_m" validate:"gte=0"`
	GameID              *string       `json:"game_id" validate:"omitnil,max=128"`
	Rounds              []ImportRound `json:"rounds" validate:"max=100,dive"`
}

// ImportResponse is the response for POST /api/import.
type ImportResponse struct {
	ResultID            string  `json:"result_id"`
	TotalScore          int     `json:"total_score"`
	TotalDistanceMeters float64 `json:"total_distance_m"`
	Duplicate           bool    `json:"duplicate"`
}

func handleImport(logger *slog.Logger, store Store, results *resultWriter, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if err := readJSON(r, &req); err != nil {
			m.Import(metrics.ImportInvalid)
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		req.BoardSlug = strings.TrimSpace(req.BoardSlug)
		if req.GameID != nil {
			if id := strings.TrimSpace(*req.GameID); id != "" {
				req.GameID = &id
			} else {
				req.GameID = nil
			}
		}

		if err := validate.Struct(req); err != nil {
			m.Import(metrics.ImportInvalid)
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		board, err := store.BoardBySlug(r.Context(), req.BoardSlug)
		if errors.Is(err, ErrNotFound) {
			m.Import(metrics.ImportNoBoard)
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		if err != nil {
			m.Import(metrics.ImportError)
			logger.Error("loading board", "board", req.BoardSlug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		player, err := store.UpsertPlayerByName(r.Context(), req.PlayerName)
		if err != nil {
			m.Import(metrics.ImportError)
			logger.Error("upserting player", "player", req.PlayerName, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		res := leaderboard.Result{
			Source:              leaderboard.SourceImport,
			GameID:              req.GameID,
			TotalScore:          req.TotalScore,
			TotalDistanceMeters: req.TotalDistanceMeters,
			Rounds:              make([]leaderboard.Round, 0, len(req.Rounds)),
		}
		for i, rd := range req.Rounds {
			res.Rounds = append(res.Rounds, leaderboard.Round{
				Number:         i + 1,
				Score:          rd.Score,
				DistanceMeters: rd.DistanceMeters,
				GuessLat:       rd.GuessLat,
				GuessLng:       rd.GuessLng,
				TargetLat:      rd.TargetLat,
				TargetLng:      rd.TargetLng,
			})
		}

		stored, duplicate, err := results.record(r.Context(), board, player, res)
		if err != nil {
			m.Import(metrics.ImportError)
			logger.Error("recording import", "board", board.Slug, "player", player.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if duplicate {
			m.Import(metrics.ImportDuplicate)
		} else {
			m.Import(metrics.ImportStored)
		}
		writeJSON(w, http.StatusOK, ImportResponse{
			ResultID:            stored.ID,
			TotalScore:          stored.TotalScore,
			TotalDistanceMeters: stored.TotalDistanceMeters,
			Duplicate:           duplicate,
		})
	}
}
