package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

// RegisterRequest is the request body for POST /api/players/register.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"required,max=80"`
}

// LoginRequest is the request body for POST /api/players/login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PlayerResponse is the signed-in player.
type PlayerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func playerResponse(p leaderboard.Player) PlayerResponse {
	return PlayerResponse{ID: p.ID, Name: p.Name, Email: p.Email}
}

func handleRegister(logger *slog.Logger, store Store, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = trimLower(req.Email)
		req.Name = trim(req.Name)
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		player, err := store.RegisterPlayer(r.Context(), req.Email, req.Name)
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "that name is taken")
			return
		}
		if err != nil {
			logger.Error("registering player", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !startSession(w, r, logger, store, player, secure) {
			return
		}
		writeJSON(w, http.StatusOK, playerResponse(player))
	}
}

func handleLogin(logger *slog.Logger, store Store, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = trimLower(req.Email)
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		player, err := store.PlayerByEmail(r.Context(), req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unknown email")
			return
		}
		if err != nil {
			logger.Error("loading player", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !startSession(w, r, logger, store, player, secure) {
			return
		}
		writeJSON(w, http.StatusOK, playerResponse(player))
	}
}

func startSession(w http.ResponseWriter, r *http.Request, logger *slog.Logger, store Store, player leaderboard.Player, secure bool) bool {
	sessionID, err := store.CreateSession(r.Context(), player.ID)
	if err != nil {
		logger.Error("creating session", "player", player.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}
	setSessionCookie(w, sessionID, secure)
	return true
}

func handleLogout(logger *slog.Logger, store Store, secure bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			if err := store.DeleteSession(r.Context(), cookie.Value); err != nil {
				logger.Error("deleting session", "error", err)
			}
		}
		clearSessionCookie(w, secure)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleMe(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := playerFromRequest(r, store)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		writeJSON(w, http.StatusOK, playerResponse(player))
	}
}
