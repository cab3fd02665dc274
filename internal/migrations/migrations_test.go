package migrations_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/geoboard/leaderboard/internal/database"
	"github.com/geoboard/leaderboard/internal/migrations"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	version, err := migrations.Run(context.Background(), db, quietLogger())
	if err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}

	want := []string{"boards", "players", "sessions", "results", "rounds"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Run(context.Background(), db, quietLogger()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := migrations.Run(context.Background(), db, quietLogger()); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestGameIDUniquePerBoardPlayer(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Run(context.Background(), db, quietLogger()); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	stmts := []string{
		`INSERT INTO boards (id, slug, name, admin_key_hash, created_at) VALUES ('b1', 'friends', 'Friends', 'x', '2026-10-18T00:00:00.000Z')`,
		`INSERT INTO players (id, name, name_key, created_at) VALUES ('p1', 'Ana', 'ana', '2026-10-18T00:00:00.000Z')`,
		`INSERT INTO results (id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at)
		 VALUES ('r1', 'b1', 'p1', 'import', NULL, 100, 0, '2026-10-18', '2026-10-18T00:00:00.000Z')`,
		`INSERT INTO results (id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at)
		 VALUES ('r2', 'b1', 'p1', 'import', NULL, 100, 0, '2026-10-18', '2026-10-18T00:00:00.000Z')`,
		`INSERT INTO results (id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at)
		 VALUES ('r3', 'b1', 'p1', 'import', 'tok', 100, 0, '2026-10-18', '2026-10-18T00:00:00.000Z')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}

	_, err = db.Exec(`INSERT INTO results (id, board_id, player_id, source, game_id, total_score, total_distance_m, played_on, created_at)
		VALUES ('r4', 'b1', 'p1', 'import', 'tok', 100, 0, '2026-10-18', '2026-10-18T00:00:00.000Z')`)
	if err == nil {
		t.Fatal("expected unique violation for repeated game_id")
	}
}
