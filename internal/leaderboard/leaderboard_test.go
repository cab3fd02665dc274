package leaderboard

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodAll, false},
		{"all", PeriodAll, false},
		{"week", PeriodWeek, false},
		{"today", PeriodToday, false},
		{"month", "", true},
		{"WEEK", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeriodStart(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	tests := []struct {
		name   string
		period Period
		now    time.Time
		want   time.Time
	}{
		{
			name:   "all has no bound",
			period: PeriodAll,
			now:    time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC),
			want:   time.Time{},
		},
		{
			name:   "today",
			period: PeriodToday,
			now:    time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC),
			want:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "today uses the utc day",
			period: PeriodToday,
			now:    time.Date(2026, 10, 18, 21, 0, 0, 0, lima),
			want:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "week from sunday",
			period: PeriodWeek,
			now:    time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC),
			want:   time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "week from monday",
			period: PeriodWeek,
			now:    time.Date(2026, 10, 12, 0, 0, 1, 0, time.UTC),
			want:   time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "week across a month boundary",
			period: PeriodWeek,
			now:    time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
			want:   time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.period.Start(tt.now); !got.Equal(tt.want) {
				t.Errorf("Start = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	rows := []Standing{
		{PlayerName: "Cy", Games: 2, TotalScore: 9000},
		{PlayerName: "Ana", Games: 1, TotalScore: 12000},
		{PlayerName: "Bo", Games: 2, TotalScore: 9000},
		{PlayerName: "Di", Games: 3, TotalScore: 9000},
		{PlayerName: "Ed", Games: 0, TotalScore: 0},
	}

	got := Rank(rows)

	want := []struct {
		name string
		rank int
	}{
		{"Ana", 1},
		{"Bo", 2},
		{"Cy", 2},
		{"Di", 4},
		{"Ed", 5},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].PlayerName != w.name || got[i].Rank != w.rank {
			t.Errorf("row %d = %s/%d, want %s/%d", i, got[i].PlayerName, got[i].Rank, w.name, w.rank)
		}
	}
	if got[1].AverageScore != 4500 {
		t.Errorf("average = %v, want 4500", got[1].AverageScore)
	}
	if rows[0].Rank != 0 {
		t.Error("Rank modified its input")
	}
}

func TestDay(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	if got := Day(time.Date(2026, 10, 18, 22, 0, 0, 0, lima)); got != "2026-10-19" {
		t.Errorf("Day = %q, want 2026-10-19", got)
	}
}
