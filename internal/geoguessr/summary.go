// Package geoguessr turns the state blob embedded in a GeoGuessr results page
// into a canonical game summary and the import payload sent to a board.
//
// Everything here is pure: callers hand in a document or a parsed state and
// get values back. Nothing reads the network or touches storage.
package geoguessr

// Mode identifies which game variant a state blob describes.
type Mode string

const (
	ModeClassic   Mode = "classic"
	ModeDailyQuiz Mode = "daily_quiz"
)

// RoundResult is one round of a finished or in-progress game. A skipped round
// keeps its number and target but has nil guess, distance and score.
type RoundResult struct {
	RoundNumber    int      `json:"round_number"`
	GuessLat       *float64 `json:"guess_lat"`
	GuessLng       *float64 `json:"guess_lng"`
	TargetLat      *float64 `json:"target_lat"`
	TargetLng      *float64 `json:"target_lng"`
	DistanceMeters *float64 `json:"distance_m"`
	Score          *int     `json:"score"`
}

// Player is the best-effort identity of whoever played the game.
type Player struct {
	ID          *string `json:"id"`
	DisplayName *string `json:"display_name"`
	CountryCode *string `json:"country_code"`
	Email       *string `json:"email"`
}

// GameSummary is the normalized result of one game.
type GameSummary struct {
	Mode                Mode          `json:"mode"`
	DailyQuizID         *string       `json:"daily_quiz_id,omitempty"`
	QuizID              *string       `json:"quiz_id,omitempty"`
	GameToken           *string       `json:"game_token,omitempty"`
	Player              Player        `json:"player"`
	TotalScore          *int          `json:"total_score"`
	TotalDistanceMeters *float64      `json:"total_distance_m"`
	Rounds              []RoundResult `json:"rounds"`
}

// ExternalGameID returns the first identifier present, in order: daily quiz
// id, quiz id, game token.
func (s GameSummary) ExternalGameID() *string {
	for _, id := range []*string{s.DailyQuizID, s.QuizID, s.GameToken} {
		if id != nil && *id != "" {
			return id
		}
	}
	return nil
}

// sumScores adds up per-round scores. Missing scores count as zero here only.
func sumScores(rounds []RoundResult) int {
	total := 0
	for _, r := range rounds {
		if r.Score != nil {
			total += *r.Score
		}
	}
	return total
}

// sumDistances adds up per-round distances. Missing distances count as zero here only.
func sumDistances(rounds []RoundResult) float64 {
	var total float64
	for _, r := range rounds {
		if r.DistanceMeters != nil {
			total += *r.DistanceMeters
		}
	}
	return total
}

func ptr[T any](v T) *T { return &v }
