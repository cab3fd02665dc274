// Package leaderboard defines the board domain types and the standings
// arithmetic. It has zero external dependencies.
package leaderboard

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

type Board struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
}

type Player struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Source records how a result reached the board.
type Source string

const (
	SourceImport Source = "import"
	SourceManual Source = "manual"
)

type Round struct {
	Number         int
	Score          *int
	DistanceMeters *float64
	GuessLat       *float64
	GuessLng       *float64
	TargetLat      *float64
	TargetLng      *float64
}

type Result struct {
	ID                  string
	BoardID             string
	PlayerID            string
	Source              Source
	GameID              *string
	TotalScore          int
	TotalDistanceMeters float64
	PlayedOn            string
	CreatedAt           time.Time
	Rounds              []Round
}

// Period selects the results counted in a standings table.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodToday Period = "today"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodWeek, PeriodToday:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Start returns the first instant counted by p at now, in UTC. Weeks start
// on Monday. The zero time means no lower bound.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodToday:
		return day
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
	return time.Time{}
}

// Day formats t as the UTC calendar day used for the daily manual entry
// limit.
func Day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Standing is one player's row in a standings table.
type Standing struct {
	Rank                int
	PlayerName          string
	Games               int
	TotalScore          int
	AverageScore        float64
	BestRound           int
	TotalDistanceMeters float64
}

// Rank orders rows by total score descending, then average score
// descending, then name, and assigns ranks. Rows with equal total and
// average share a rank; the next distinct row skips past them.
func Rank(rows []Standing) []Standing {
	out := slices.Clone(rows)
	for i := range out {
		if out[i].Games > 0 {
			out[i].AverageScore = float64(out[i].TotalScore) / float64(out[i].Games)
		}
	}

	slices.SortStableFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AverageScore, a.AverageScore); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})

	for i := range out {
		if i > 0 && out[i].TotalScore == out[i-1].TotalScore && out[i].AverageScore == out[i-1].AverageScore {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}
