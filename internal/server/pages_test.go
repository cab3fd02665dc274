package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/geoboard/leaderboard/internal/destination"
)

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createBoard(t, "friends")

	w := env.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content-type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `href="/boards/friends"`) {
		t.Error("index does not link the board")
	}
	if strings.Contains(body, `class="nav-player"`) {
		t.Error("guest page shows a player name")
	}
}

// The collector reads the player name from the navbar and the board slug
// from the URL. Both must survive a round trip through the rendered page.
func TestBoardPageCarriesImportContext(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createBoard(t, "friends")
	session := env.register(t, "ana@example.com", "Ana <3")
	env.importGame(t, ImportRequest{PlayerName: "Ana <3", BoardSlug: "friends", TotalScore: 12345})

	target := "/boards/friends?period=week"
	w := env.do(t, http.MethodGet, target, nil, session)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "12345") {
		t.Error("standings missing the imported total")
	}

	ctx, err := destination.Resolve("http://example.com"+target, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.PlayerName != "Ana <3" || ctx.BoardSlug != "friends" {
		t.Errorf("context = %+v", ctx)
	}
}

func TestBoardPageNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	if w := env.do(t, http.MethodGet, "/boards/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestBoardPageBadPeriodFallsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createBoard(t, "friends")

	if w := env.do(t, http.MethodGet, "/boards/friends?period=decade", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
