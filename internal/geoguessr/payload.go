package geoguessr

// ImportRound is the flat round shape accepted by the board service.
type ImportRound struct {
	Score          *int     `json:"score"`
	DistanceMeters *float64 `json:"distance_m"`
	GuessLat       *float64 `json:"guess_lat"`
	GuessLng       *float64 `json:"guess_lng"`
	TargetLat      *float64 `json:"target_lat"`
	TargetLng      *float64 `json:"target_lng"`
}

// ImportPayload is the body of POST /api/import.
type ImportPayload struct {
	PlayerName          string        `json:"player_name"`
	BoardSlug           string        `json:"board_slug"`
	TotalScore          int           `json:"total_score"`
	TotalDistanceMeters float64       `json:"total_distance_m"`
	GameID              *string       `json:"game_id"`
	Rounds              []ImportRound `json:"rounds"`
}

// BuildPayload maps a summary onto the wire shape. playerName and boardSlug
// come from the destination session, never from the game itself.
func BuildPayload(s GameSummary, playerName, boardSlug string) ImportPayload {
	p := ImportPayload{
		PlayerName: playerName,
		BoardSlug:  boardSlug,
		GameID:     s.ExternalGameID(),
		Rounds:     make([]ImportRound, 0, len(s.Rounds)),
	}

	if s.TotalScore != nil {
		p.TotalScore = *s.TotalScore
	} else {
		p.TotalScore = sumScores(s.Rounds)
	}
	if s.TotalDistanceMeters != nil {
		p.TotalDistanceMeters = *s.TotalDistanceMeters
	} else {
		p.TotalDistanceMeters = sumDistances(s.Rounds)
	}

	for _, r := range s.Rounds {
		p.Rounds = append(p.Rounds, ImportRound{
			Score:          r.Score,
			DistanceMeters: r.DistanceMeters,
			GuessLat:       r.GuessLat,
			GuessLng:       r.GuessLng,
			TargetLat:      r.TargetLat,
			TargetLng:      r.TargetLng,
		})
	}
	return p
}
