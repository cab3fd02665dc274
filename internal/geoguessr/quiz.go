package geoguessr

// normalizeQuiz reads a daily quiz game. Guesses and rounds are separate
// lists joined on roundNumber, not on position, and either list may be out
// of order or incomplete.
func normalizeQuiz(game map[string]any) GameSummary {
	rawRounds, _ := arrayAt(game, "rounds")
	rawGuesses, _ := arrayAt(game, "guesses")

	guesses := indexByRound(rawGuesses, false)
	rounds := indexByRound(rawRounds, true)

	total := len(rawRounds)
	if n, ok := quizRoundCount.read(game); ok {
		total = int(n)
	}

	out := make([]RoundResult, 0, total)
	for n := 1; n <= total; n++ {
		rr := RoundResult{RoundNumber: n}
		if round, ok := rounds[n]; ok {
			rr.TargetLat = quizTargetLat.ptr(round)
			rr.TargetLng = quizTargetLng.ptr(round)
		}
		if guess, ok := guesses[n]; ok {
			rr.GuessLat = latitude.ptr(guess)
			rr.GuessLng = longitude.ptr(guess)
			rr.DistanceMeters = quizGuessDistance.ptr(guess)
			rr.Score = quizGuessScore.intPtr(guess)
		}
		out = append(out, rr)
	}

	self, _ := objectAt(game, "player")
	s := GameSummary{
		Mode:        ModeDailyQuiz,
		DailyQuizID: dailyQuizIDField.ptr(game),
		QuizID:      quizIDField.ptr(game),
		Player:      playerFrom(self),
		Rounds:      out,
	}

	s.TotalScore = quizTotalScore.intPtr(game)
	if s.TotalScore == nil {
		s.TotalScore = ptr(sumScores(out))
	}
	s.TotalDistanceMeters = quizTotalDistance.ptr(game)
	if s.TotalDistanceMeters == nil {
		s.TotalDistanceMeters = ptr(sumDistances(out))
	}
	return s
}

// indexByRound maps roundNumber to its entry. The first entry for a number
// wins. When positional is set, entries without a roundNumber fall back to
// their 1-based position.
func indexByRound(entries []any, positional bool) map[int]map[string]any {
	idx := make(map[int]map[string]any, len(entries))
	for i, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		var n int
		if v, ok := roundNumberField.read(entry); ok {
			n = int(v)
		} else if positional {
			n = i + 1
		} else {
			continue
		}

		if _, dup := idx[n]; !dup {
			idx[n] = entry
		}
	}
	return idx
}
