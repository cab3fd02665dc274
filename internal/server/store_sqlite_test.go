package server

import (
	"context"
	"testing"
	"time"

	"github.com/geoboard/leaderboard/internal/leaderboard"
)

func TestStoreTimestampsRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := &testClock{t: testNow.Add(1500 * time.Microsecond)}
	store := newTestStore(t, clock)
	want := testNow.Add(time.Millisecond)

	b, err := store.CreateBoard(ctx, "friends", "Friends", "hash")
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if !b.CreatedAt.Equal(want) {
		t.Errorf("created board at %v, want %v", b.CreatedAt, want)
	}

	got, err := store.BoardBySlug(ctx, "friends")
	if err != nil {
		t.Fatalf("board by slug: %v", err)
	}
	if !got.CreatedAt.Equal(want) {
		t.Errorf("board read back at %v, want %v", got.CreatedAt, want)
	}

	boards, err := store.ListBoards(ctx)
	if err != nil {
		t.Fatalf("list boards: %v", err)
	}
	if len(boards) != 1 || !boards[0].CreatedAt.Equal(want) {
		t.Errorf("listed boards = %+v, want one created at %v", boards, want)
	}

	if _, err := store.RegisterPlayer(ctx, "ana@example.com", "Ana"); err != nil {
		t.Fatalf("register: %v", err)
	}
	p, err := store.PlayerByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("player by email: %v", err)
	}
	if !p.CreatedAt.Equal(want) {
		t.Errorf("player read back at %v, want %v", p.CreatedAt, want)
	}

	res := leaderboard.Result{
		BoardID:    b.ID,
		PlayerID:   p.ID,
		Source:     leaderboard.SourceImport,
		GameID:     ptr("Tok42"),
		TotalScore: 7000,
	}
	if _, dup, err := store.RecordResult(ctx, res); err != nil || dup {
		t.Fatalf("record: dup=%v err=%v", dup, err)
	}

	// The stored copy comes back for a repeat, read from the database.
	clock.Set(testNow.Add(48 * time.Hour))
	existing, dup, err := store.RecordResult(ctx, res)
	if err != nil || !dup {
		t.Fatalf("repeat: dup=%v err=%v", dup, err)
	}
	if !existing.CreatedAt.Equal(want) {
		t.Errorf("duplicate created at %v, want %v", existing.CreatedAt, want)
	}
	if existing.PlayedOn != "2026-10-18" {
		t.Errorf("duplicate played on %q, want 2026-10-18", existing.PlayedOn)
	}

	recent, err := store.RecentResults(ctx, b.ID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || !recent[0].CreatedAt.Equal(want) {
		t.Errorf("recent = %+v, want one created at %v", recent, want)
	}
}

func TestTimeColumnScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    time.Time
		wantErr bool
	}{
		{name: "time value", src: testNow, want: testNow},
		{name: "text", src: "2026-10-18T12:00:00.000Z", want: testNow},
		{name: "bytes", src: []byte("2026-10-18T12:00:00.000Z"), want: testNow},
		{name: "bad text", src: "yesterday", wantErr: true},
		{name: "number", src: int64(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got time.Time
			err := timeColumn{&got}.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
