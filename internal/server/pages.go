package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"km": func(m float64) string { return fmt.Sprintf("%.1f", m/1000) },
}).ParseFS(templateFS, "templates/*.html"))

var periods = []leaderboard.Period{leaderboard.PeriodAll, leaderboard.PeriodWeek, leaderboard.PeriodToday}

type indexPage struct {
	Player *leaderboard.Player
	Boards []BoardSummary
}

type boardPage struct {
	Player    *leaderboard.Player
	Board     leaderboard.Board
	Periods   []leaderboard.Period
	Standings LeaderboardResponse
	Recent    []RecentResult
}

// sessionPlayer returns the signed-in player for the navbar, or nil.
func sessionPlayer(r *http.Request, store Store) *leaderboard.Player {
	p, err := playerFromRequest(r, store)
	if err != nil {
		return nil
	}
	return &p
}

func renderPage(w http.ResponseWriter, logger *slog.Logger, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("rendering page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func handleIndexPage(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := store.ListBoards(r.Context())
		if err != nil {
			logger.Error("listing boards", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		renderPage(w, logger, "index", indexPage{
			Player: sessionPlayer(r, store),
			Boards: boards,
		})
	}
}

func handleBoardPage(logger *slog.Logger, store Store, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := store.BoardBySlug(r.Context(), chi.URLParam(r, "board"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		period, err := leaderboard.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			period = leaderboard.PeriodAll
		}

		standings, err := loadStandings(r.Context(), store, board, period, now())
		if err != nil {
			logger.Error("loading standings", "board", board.Slug, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		recent, err := store.RecentResults(r.Context(), board.ID, 10)
		if err != nil {
			logger.Error("loading recent results", "board", board.Slug, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		renderPage(w, logger, "board", boardPage{
			Player:    sessionPlayer(r, store),
			Board:     board,
			Periods:   periods,
			Standings: standings,
			Recent:    recent,
		})
	}
}
