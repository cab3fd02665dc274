package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoboard/leaderboard/internal/database"
	"github.com/geoboard/leaderboard/internal/metrics"
	"github.com/geoboard/leaderboard/internal/migrations"
	"github.com/geoboard/leaderboard/internal/server"
)

var resultsPage = filepath.Join("..", "..", "internal", "geoguessr", "testdata", "results_page.html")

// newBoardServer starts a geoboard server on an in-memory database with
// one board, "friends", and returns its URL.
func newBoardServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = migrations.Run(ctx, db, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(server.NewHandler(logger, server.Deps{
		Store:   server.NewSQLiteStore(db, nil),
		Metrics: metrics.New(prometheus.NewRegistry()),
	}))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/boards", "application/json",
		strings.NewReader(`{"slug":"friends","name":"Friends"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return srv.URL
}

// registerPlayer signs a player up and returns the session cookie value.
func registerPlayer(t *testing.T, serverURL, email, name string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "name": name})
	resp, err := http.Post(serverURL+"/api/players/register", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "player_session" {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

// runCLI executes the collector with args and returns stdout, stderr and the
// command error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func setupEnv(t *testing.T, serverURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GEOBOARD_URL", serverURL)
	t.Setenv("GEOBOARD_SLOT", filepath.Join(dir, "slot.json"))
	t.Setenv("GEOBOARD_REDIS_URL", "")
	t.Setenv("GEOBOARD_SESSION", "")
	return filepath.Join(dir, "missing.env")
}

func TestExtractThenImportFromBoardPage(t *testing.T) {
	serverURL := newBoardServer(t)
	envFile := setupEnv(t, serverURL)
	session := registerPlayer(t, serverURL, "bo@example.com", "Bo")

	out, _, err := runCLI(t, "--env-file", envFile, "extract", resultsPage)
	require.NoError(t, err)
	assert.Equal(t, "stored\n", out)

	out, _, err = runCLI(t, "--env-file", envFile, "slot", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Tok42")
	assert.Regexp(t, `rounds\s+2\n`, out)

	out, _, err = runCLI(t, "--env-file", envFile, "import",
		"--board-url", "/boards/friends", "--session", session)
	require.NoError(t, err)
	assert.Equal(t, "Imported to friends: 7000 points\n", out)

	// The slot is kept, so a second import is reported as already on the board.
	out, _, err = runCLI(t, "--env-file", envFile, "import", "--player", "Bo", "--board", "friends")
	require.NoError(t, err)
	assert.Equal(t, "Already on friends: 7000 points\n", out)

	resp, err := http.Get(serverURL + "/api/boards/friends/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	var lb server.LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lb))
	require.Len(t, lb.Rows, 1)
	assert.Equal(t, "Bo", lb.Rows[0].PlayerName)
	assert.Equal(t, 1, lb.Rows[0].Games)
}

func TestImportWithoutContext(t *testing.T) {
	serverURL := newBoardServer(t)
	envFile := setupEnv(t, serverURL)

	_, _, err := runCLI(t, "--env-file", envFile, "extract", resultsPage)
	require.NoError(t, err)

	// Not signed in: the board page shows no player.
	_, stderr, err := runCLI(t, "--env-file", envFile, "import", "--board-url", serverURL+"/boards/friends")
	require.ErrorIs(t, err, errReported)
	assert.NotEmpty(t, stderr)
}

func TestImportEmptySlot(t *testing.T) {
	serverURL := newBoardServer(t)
	envFile := setupEnv(t, serverURL)

	_, stderr, err := runCLI(t, "--env-file", envFile, "import", "--player", "Bo", "--board", "friends")
	require.ErrorIs(t, err, errReported)
	assert.NotEmpty(t, stderr)
}

func TestImportUnknownBoard(t *testing.T) {
	serverURL := newBoardServer(t)
	envFile := setupEnv(t, serverURL)

	_, _, err := runCLI(t, "--env-file", envFile, "extract", resultsPage)
	require.NoError(t, err)

	_, stderr, err := runCLI(t, "--env-file", envFile, "import", "--player", "Bo", "--board", "nope")
	require.ErrorIs(t, err, errReported)
	assert.NotEmpty(t, stderr)

	// The game is still there for a retry.
	out, _, err := runCLI(t, "--env-file", envFile, "slot", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Tok42")
}

func TestSlotClear(t *testing.T) {
	envFile := setupEnv(t, "http://127.0.0.1:1")

	_, _, err := runCLI(t, "--env-file", envFile, "extract", resultsPage)
	require.NoError(t, err)

	out, _, err := runCLI(t, "--env-file", envFile, "slot", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Cleared.\n", out)

	out, _, err = runCLI(t, "--env-file", envFile, "slot", "show")
	require.NoError(t, err)
	assert.Equal(t, "No game stored.\n", out)
}

func TestExtractPageWithoutGame(t *testing.T) {
	envFile := setupEnv(t, "http://127.0.0.1:1")
	page := filepath.Join(t.TempDir(), "empty.html")
	require.NoError(t, os.WriteFile(page, []byte("<html><body>nothing here</body></html>"), 0o644))

	out, _, err := runCLI(t, "--env-file", envFile, "extract", page)
	require.Error(t, err)
	assert.Equal(t, "no_state\n", out)
}

func TestWatchNeedsOneSource(t *testing.T) {
	envFile := setupEnv(t, "http://127.0.0.1:1")

	_, _, err := runCLI(t, "--env-file", envFile, "watch")
	require.Error(t, err)

	_, _, err = runCLI(t, "--env-file", envFile, "watch", "page.html", "--browser", "https://www.geoguessr.com")
	require.Error(t, err)
}
