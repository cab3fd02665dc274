package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

type ctxKey int

const ctxKeyBoard ctxKey = iota

// boardMiddleware resolves the {board} URL parameter. Unknown boards get a
// 404 before the handler runs.
func boardMiddleware(logger *slog.Logger, store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "board")
			if slug == "" {
				writeError(w, http.StatusNotFound, "board not found")
				return
			}

			board, err := store.BoardBySlug(r.Context(), slug)
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "board not found")
				return
			}
			if err != nil {
				logger.Error("loading board", "board", slug, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyBoard, board)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func boardFrom(r *http.Request) leaderboard.Board {
	return r.Context().Value(ctxKeyBoard).(leaderboard.Board)
}
