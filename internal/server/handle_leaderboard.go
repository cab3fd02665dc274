package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geoboard/leaderboard/internal/leaderboard"
	"github.com/geoboard/leaderboard/internal/metrics"
)

// StandingRow is one ranked player.
type StandingRow struct {
	Rank                int     `json:"rank"`
	PlayerName          string  `json:"player_name"`
	Games               int     `json:"games"`
	TotalScore          int     `json:"total_score"`
	AverageScore        float64 `json:"average_score"`
	BestRound           int     `json:"best_round"`
	TotalDistanceMeters float64 `json:"total_distance_m"`
}

// LeaderboardResponse is the response for GET /api/boards/{board}/leaderboard.
type LeaderboardResponse struct {
	Board  string             `json:"board"`
	Period leaderboard.Period `json:"period"`
	// Since is omitted for the all-time table.
	Since *time.Time    `json:"since,omitempty"`
	Rows  []StandingRow `json:"rows"`
}

func loadStandings(ctx context.Context, store Store, board leaderboard.Board, period leaderboard.Period, now time.Time) (LeaderboardResponse, error) {
	since := period.Start(now)
	raw, err := store.Standings(ctx, board.ID, since)
	if err != nil {
		return LeaderboardResponse{}, err
	}

	resp := LeaderboardResponse{
		Board:  board.Slug,
		Period: period,
		Rows:   []StandingRow{},
	}
	if !since.IsZero() {
		resp.Since = &since
	}
	for _, st := range leaderboard.Rank(raw) {
		resp.Rows = append(resp.Rows, StandingRow{
			Rank:                st.Rank,
			PlayerName:          st.PlayerName,
			Games:               st.Games,
			TotalScore:          st.TotalScore,
			AverageScore:        st.AverageScore,
			BestRound:           st.BestRound,
			TotalDistanceMeters: st.TotalDistanceMeters,
		})
	}
	return resp, nil
}

// handleLeaderboard serves standings, from the cache when possible. The
// cache key includes the period start so a table never outlives its day or
// week.
func handleLeaderboard(logger *slog.Logger, store Store, cache StandingsCache, m *metrics.Metrics, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := leaderboard.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "period must be all, week or today")
			return
		}

		board := boardFrom(r)
		at := now()
		key := string(period) + ":" + strconv.FormatInt(period.Start(at).Unix(), 10)

		if data, ok := cache.Get(r.Context(), board.Slug, key); ok {
			m.CacheLookups.WithLabelValues("hit").Inc()
			writeRawJSON(w, http.StatusOK, data)
			return
		}
		m.CacheLookups.WithLabelValues("miss").Inc()

		resp, err := loadStandings(r.Context(), store, board, period, at)
		if err != nil {
			logger.Error("loading standings", "board", board.Slug, "period", period, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		data, err := json.Marshal(resp)
		if err != nil {
			logger.Error("encoding standings", "board", board.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Set(r.Context(), board.Slug, key, data)
		writeRawJSON(w, http.StatusOK, data)
	}
}
