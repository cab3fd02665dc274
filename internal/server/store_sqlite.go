package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

const timeFormat = "2006-01-02T15:04:05.000Z"

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB, now func() time.Time) *SQLiteStore {
	if now == nil {
		now = time.Now
	}
	return &SQLiteStore{db: db, now: now}
}

// stamp returns the current time at the precision it is stored with.
func (s *SQLiteStore) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// timeColumn scans a TEXT timestamp. libsql decodes date-like text into
// time.Time on its own; plain strings are parsed with timeFormat.
type timeColumn struct{ t *time.Time }

func (c timeColumn) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case time.Time:
		*c.t = v.UTC()
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("scanning timestamp: unsupported type %T", src)
	}
	t, err := time.Parse(timeFormat, text)
	if err != nil {
		return fmt.Errorf("scanning timestamp: %w", err)
	}
	*c.t = t
	return nil
}

// dayColumn scans a YYYY-MM-DD column, which libsql may also hand back as
// time.Time.
type dayColumn struct{ s *string }

func (c dayColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.s = leaderboard.Day(v)
	case string:
		*c.s = v
	case []byte:
		*c.s = string(v)
	default:
		return fmt.Errorf("scanning day: unsupported type %T", src)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// --- boards ---

func (s *SQLiteStore) CreateBoard(ctx context.Context, slug, name, adminKeyHash string) (leaderboard.Board, error) {
	b := leaderboard.Board{ID: uuid.NewString(), Slug: slug, Name: name}
	created := s.stamp()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, slug, name, admin_key_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.ID, slug, name, adminKeyHash, created.Format(timeFormat))
	if isUniqueViolation(err) {
		return b, fmt.Errorf("board %q: %w", slug, ErrConflict)
	}
	if err != nil {
		return b, fmt.Errorf("inserting board: %w", err)
	}
	b.CreatedAt = created
	return b, nil
}

func (s *SQLiteStore) ListBoards(ctx context.Context) ([]BoardSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.slug, b.name, b.created_at,
		       COUNT(DISTINCT r.player_id), COUNT(r.id)
		FROM boards b
		LEFT JOIN results r ON r.board_id = b.id
		GROUP BY b.id
		ORDER BY b.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []BoardSummary{}
	for rows.Next() {
		var b BoardSummary
		if err := rows.Scan(&b.Slug, &b.Name, timeColumn{&b.CreatedAt}, &b.Players, &b.Results); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *SQLiteStore) BoardBySlug(ctx context.Context, slug string) (leaderboard.Board, error) {
	var b leaderboard.Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, name, created_at FROM boards WHERE slug = ?
	`, slug).Scan(&b.ID, &b.Slug, &b.Name, timeColumn{&b.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

func (s *SQLiteStore) BoardKeyHash(ctx context.Context, boardID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT admin_key_hash FROM boards WHERE id = ?
	`, boardID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

func (s *SQLiteStore) DeleteBoard(ctx context.Context, boardID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- players ---

const playerColumns = `id, name, COALESCE(email, ''), created_at`

func scanPlayer(row interface{ Scan(...any) error }) (leaderboard.Player, error) {
	var p leaderboard.Player
	err := row.Scan(&p.ID, &p.Name, &p.Email, timeColumn{&p.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// RegisterPlayer upserts by email first, then by name. A name already held
// by a player with another email is a conflict.
func (s *SQLiteStore) RegisterPlayer(ctx context.Context, email, name string) (leaderboard.Player, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return leaderboard.Player{}, err
	}
	defer tx.Rollback()

	p, err := scanPlayer(tx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE email = ?`, email))
	switch {
	case err == nil:
		if p.Name != name {
			_, err = tx.ExecContext(ctx, `UPDATE players SET name = ?, name_key = ? WHERE id = ?`,
				name, nameKey(name), p.ID)
			if isUniqueViolation(err) {
				return leaderboard.Player{}, fmt.Errorf("name %q: %w", name, ErrConflict)
			}
			if err != nil {
				return leaderboard.Player{}, err
			}
			p.Name = name
		}
		return p, tx.Commit()
	case !errors.Is(err, ErrNotFound):
		return leaderboard.Player{}, err
	}

	p, err = scanPlayer(tx.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE name_key = ?`, nameKey(name)))
	switch {
	case err == nil:
		if p.Email != "" {
			return leaderboard.Player{}, fmt.Errorf("name %q: %w", name, ErrConflict)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE players SET email = ? WHERE id = ?`, email, p.ID); err != nil {
			return leaderboard.Player{}, err
		}
		p.Email = email
		return p, tx.Commit()
	case !errors.Is(err, ErrNotFound):
		return leaderboard.Player{}, err
	}

	p = leaderboard.Player{ID: uuid.NewString(), Name: name, Email: email}
	created := s.stamp()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO players (id, name, name_key, email, created_at) VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, nameKey(name), email, created.Format(timeFormat)); err != nil {
		return leaderboard.Player{}, fmt.Errorf("inserting player: %w", err)
	}
	p.CreatedAt = created
	return p, tx.Commit()
}

func (s *SQLiteStore) PlayerByEmail(ctx context.Context, email string) (leaderboard.Player, error) {
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE email = ?`, strings.ToLower(strings.TrimSpace(email))))
}

// UpsertPlayerByName finds a player by case-insensitive name, creating one
// without an email if none exists.
func (s *SQLiteStore) UpsertPlayerByName(ctx context.Context, name string) (leaderboard.Player, error) {
	name = strings.TrimSpace(name)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, name_key, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (name_key) DO NOTHING
	`, uuid.NewString(), name, nameKey(name), s.stamp().Format(timeFormat))
	if err != nil {
		return leaderboard.Player{}, fmt.Errorf("upserting player: %w", err)
	}
	return scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE name_key = ?`, nameKey(name)))
}

func (s *SQLiteStore) CreateSession(ctx context.Context, playerID string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, player_id, created_at) VALUES (?, ?, ?)
	`, id, playerID, s.stamp().Format(timeFormat))
	return id, err
}

func (s *SQLiteStore) PlayerFromSession(ctx context.Context, sessionID string) (leaderboard.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, COALESCE(p.email, ''), p.created_at
		FROM sessions s
		JOIN players p ON p.id = s.player_id
		WHERE s.id = ?
	`, sessionID))
	if errors.Is(err, ErrNotFound) {
		return p, errNoSession
	}
	return p, err
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// --- results ---

func (s *SQLiteStore) RecordResult(ctx context.Context, r leaderboard.Result) (leaderboard.Result, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return r, false, err
	}
	defer tx.Rollback()

	if r.GameID != nil {
		existing, err := resultByGame(ctx, tx, r.BoardID, r.PlayerID, *r.GameID)
		if err == nil {
			return existing, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return r, false, err
		}
	}

	now := s.stamp()
	r.ID = uuid.NewString()
	r.CreatedAt = now
	if r.PlayedOn == "" {
		r.PlayedOn = leaderboard.Day(now)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO results (id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.BoardID, r.PlayerID, string(r.Source), r.GameID, r.TotalScore, r.TotalDistanceMeters,
		r.PlayedOn, now.Format(timeFormat))
	if isUniqueViolation(err) {
		if r.Source == leaderboard.SourceManual || r.GameID == nil {
			return r, false, fmt.Errorf("manual entry for %s: %w", r.PlayedOn, ErrConflict)
		}
		// A concurrent import of the same game won the race.
		tx.Rollback()
		existing, err := resultByGame(ctx, s.db, r.BoardID, r.PlayerID, *r.GameID)
		return existing, err == nil, err
	}
	if err != nil {
		return r, false, fmt.Errorf("inserting result: %w", err)
	}

	for _, rd := range r.Rounds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rounds (result_id, round_number, score, distance_m, guess_lat, guess_lng, target_lat, target_lng)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, rd.Number, rd.Score, rd.DistanceMeters, rd.GuessLat, rd.GuessLng, rd.TargetLat, rd.TargetLng)
		if err != nil {
			return r, false, fmt.Errorf("inserting round %d: %w", rd.Number, err)
		}
	}

	return r, false, tx.Commit()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func resultByGame(ctx context.Context, q queryer, boardID, playerID, gameID string) (leaderboard.Result, error) {
	var r leaderboard.Result
	var source string
	var game sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at
		FROM results
		WHERE board_id = ? AND player_id = ? AND game_id = ?
	`, boardID, playerID, gameID).Scan(&r.ID, &r.BoardID, &r.PlayerID, &source, &game,
		&r.TotalScore, &r.TotalDistanceMeters, dayColumn{&r.PlayedOn}, timeColumn{&r.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return r, ErrNotFound
	}
	if err != nil {
		return r, err
	}
	r.Source = leaderboard.Source(source)
	if game.Valid {
		r.GameID = &game.String
	}
	return r, nil
}

// Standings aggregates results recorded at or after since. Ranking is left
// to leaderboard.Rank.
func (s *SQLiteStore) Standings(ctx context.Context, boardID string, since time.Time) ([]leaderboard.Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name,
		       COUNT(r.id),
		       COALESCE(SUM(r.total_score), 0),
		       COALESCE(MAX(best.score), 0),
		       COALESCE(SUM(r.total_distance_m), 0)
		FROM results r
		JOIN players p ON p.id = r.player_id
		LEFT JOIN (
			SELECT result_id, MAX(score) AS score FROM rounds GROUP BY result_id
		) best ON best.result_id = r.id
		WHERE r.board_id = ? AND r.created_at >= ?
		GROUP BY p.id, p.name
	`, boardID, since.UTC().Format(timeFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leaderboard.Standing
	for rows.Next() {
		var st leaderboard.Standing
		if err := rows.Scan(&st.PlayerName, &st.Games, &st.TotalScore, &st.BestRound, &st.TotalDistanceMeters); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RecentResults(ctx context.Context, boardID string, limit int) ([]RecentResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, r.source, r.total_score, r.created_at
		FROM results r
		JOIN players p ON p.id = r.player_id
		WHERE r.board_id = ?
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?
	`, boardID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentResult
	for rows.Next() {
		var rr RecentResult
		var source string
		if err := rows.Scan(&rr.PlayerName, &source, &rr.TotalScore, timeColumn{&rr.CreatedAt}); err != nil {
			return nil, err
		}
		rr.Source = leaderboard.Source(source)
		out = append(out, rr)
	}
	return out, rows.Err()
}
