package geoguessr

// normalizeClassic reads a classic game. The raw rounds list also holds
// placeholder rounds that have not been played yet, so it is truncated to the
// current round number.
func normalizeClassic(game map[string]any) GameSummary {
	self := classicSelf(game)
	rounds, _ := arrayAt(game, "rounds")

	played := len(rounds)
	if n, ok := classicPlayedRounds.read(game); ok {
		played = min(int(n), len(rounds))
	}

	selfGuesses, _ := arrayAt(self, "guesses")

	out := make([]RoundResult, 0, played)
	for i := 0; i < played; i++ {
		rr := RoundResult{RoundNumber: i + 1}

		round, _ := rounds[i].(map[string]any)
		rr.TargetLat = latitude.ptr(round)
		rr.TargetLng = longitude.ptr(round)

		if guess, ok := classicGuess(round, selfGuesses, i); ok {
			rr.GuessLat = latitude.ptr(guess)
			rr.GuessLng = longitude.ptr(guess)
			rr.DistanceMeters = classicGuessDistance.ptr(guess)
			rr.Score = classicGuessScore.intPtr(guess)
		}
		out = append(out, rr)
	}

	s := GameSummary{
		Mode:      ModeClassic,
		GameToken: gameTokenField.ptr(game),
		Player:    playerFrom(self),
		Rounds:    out,
	}

	s.TotalScore = classicTotalScore.intPtr(self)
	if s.TotalScore == nil {
		s.TotalScore = ptr(sumScores(out))
	}
	s.TotalDistanceMeters = classicTotalDistance.ptr(self)
	if s.TotalDistanceMeters == nil {
		s.TotalDistanceMeters = ptr(sumDistances(out))
	}
	return s
}

// classicSelf returns the first entry of the players list, falling back to
// the singular player object older clients used.
func classicSelf(game map[string]any) map[string]any {
	if p, ok := objectAt(game, "players.0"); ok {
		return p
	}
	if p, ok := objectAt(game, "player"); ok {
		return p
	}
	return nil
}

// classicGuess finds the guess for round i: the round's own guesses list,
// then its singular guess, then the player's guess list by position.
func classicGuess(round map[string]any, selfGuesses []any, i int) (map[string]any, bool) {
	if g, ok := firstObject(round, "guesses.0", "guess"); ok {
		return g, true
	}
	if i < len(selfGuesses) {
		g, ok := selfGuesses[i].(map[string]any)
		return g, ok
	}
	return nil, false
}
