package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const boardKeyHeader = "X-Board-Key"

// CreateBoardRequest is the request body for POST /api/boards.
type CreateBoardRequest struct {
	Slug string `json:"slug" validate:"required,min=2,max=40,slug"`
	Name string `json:"name" validate:"required,max=80"`
}

// BoardResponse describes one board.
type BoardResponse struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBoardResponse carries the admin key. It is shown once and only its
// hash is stored.
type CreateBoardResponse struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	AdminKey  string    `json:"admin_key"`
}

func newAdminKey() string {
	b := make([]byte, 24)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func handleCreateBoard(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBoardRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
		req.Name = strings.TrimSpace(req.Name)
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		key := newAdminKey()
		hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("hashing board key", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		board, err := store.CreateBoard(r.Context(), req.Slug, req.Name, string(hash))
		if errors.Is(err, ErrConflict) {
			writeError(w, http.StatusConflict, "a board with this slug already exists")
			return
		}
		if err != nil {
			logger.Error("creating board", "board", req.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("board created", "board", board.Slug)
		writeJSON(w, http.StatusCreated, CreateBoardResponse{
			Slug:      board.Slug,
			Name:      board.Name,
			CreatedAt: board.CreatedAt,
			AdminKey:  key,
		})
	}
}

func handleListBoards(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := store.ListBoards(r.Context())
		if err != nil {
			logger.Error("listing boards", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, boards)
	}
}

func handleGetBoard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board := boardFrom(r)
		writeJSON(w, http.StatusOK, BoardResponse{
			Slug:      board.Slug,
			Name:      board.Name,
			CreatedAt: board.CreatedAt,
		})
	}
}

// handleDeleteBoard removes a board and its results. The caller proves
// ownership with the admin key issued at creation.
func handleDeleteBoard(logger *slog.Logger, store Store, cache StandingsCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(boardKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, boardKeyHeader+" header required")
			return
		}

		board := boardFrom(r)
		hash, err := store.BoardKeyHash(r.Context(), board.ID)
		if err != nil {
			logger.Error("loading board key", "board", board.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			writeError(w, http.StatusForbidden, "invalid board key")
			return
		}

		if err := store.DeleteBoard(r.Context(), board.ID); err != nil && !errors.Is(err, ErrNotFound) {
			logger.Error("deleting board", "board", board.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		cache.Invalidate(r.Context(), board.Slug)

		logger.Info("board deleted", "board", board.Slug)
		w.WriteHeader(http.StatusNoContent)
	}
}
