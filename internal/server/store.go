package server

import (
	"context"
	"errors"
	"time"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// BoardSummary is a board as listed on the index page.
type BoardSummary struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Players   int       `json:"players"`
	Results   int       `json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentResult is a result row for the board page.
type RecentResult struct {
	PlayerName string             `json:"player_name"`
	Source     leaderboard.Source `json:"source"`
	TotalScore int                `json:"total_score"`
	CreatedAt  time.Time          `json:"created_at"`
}

type Store interface {
	CreateBoard(ctx context.Context, slug, name, adminKeyHash string) (leaderboard.Board, error)
	ListBoards(ctx context.Context) ([]BoardSummary, error)
	BoardBySlug(ctx context.Context, slug string) (leaderboard.Board, error)
	BoardKeyHash(ctx context.Context, boardID string) (string, error)
	DeleteBoard(ctx context.Context, boardID string) error

	RegisterPlayer(ctx context.Context, email, name string) (leaderboard.Player, error)
	PlayerByEmail(ctx context.Context, email string) (leaderboard.Player, error)
	UpsertPlayerByName(ctx context.Context, name string) (leaderboard.Player, error)
	CreateSession(ctx context.Context, playerID string) (string, error)
	PlayerFromSession(ctx context.Context, sessionID string) (leaderboard.Player, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// RecordResult stores r with its rounds. An import whose game id is
	// already on the board for the player returns the stored result and
	// duplicate=true. A second manual entry on the same UTC day returns
	// ErrConflict.
	RecordResult(ctx context.Context, r leaderboard.Result) (stored leaderboard.Result, duplicate bool, err error)
	Standings(ctx context.Context, boardID string, since time.Time) ([]leaderboard.Standing, error)
	RecentResults(ctx context.Context, boardID string, limit int) ([]RecentResult, error)
}
