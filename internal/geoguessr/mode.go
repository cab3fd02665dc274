package geoguessr

// The state has no type discriminator, so the mode is decided by which game
// object is present. Candidates are checked in order; the classic game has
// lived under two different keys over time.
var (
	quizGamePaths    = []string{"props.pageProps.quizGame"}
	classicGamePaths = []string{"props.pageProps.game", "props.pageProps.gamePlayedByCurrentUser"}
)

type located struct {
	mode Mode
	game map[string]any
}

func locate(state RawState) (located, bool) {
	if state == nil {
		return located{}, false
	}
	if g, ok := firstObject(map[string]any(state), quizGamePaths...); ok {
		return located{mode: ModeDailyQuiz, game: g}, true
	}
	if g, ok := firstObject(map[string]any(state), classicGamePaths...); ok {
		return located{mode: ModeClassic, game: g}, true
	}
	return located{}, false
}

// Classify reports the game mode of state. False means no game is present,
// which is the normal case on any page other than a results page.
func Classify(state RawState) (Mode, bool) {
	l, ok := locate(state)
	return l.mode, ok
}

// Extract classifies state and runs the matching normalizer.
func Extract(state RawState) (GameSummary, bool) {
	l, ok := locate(state)
	if !ok {
		return GameSummary{}, false
	}

	var s GameSummary
	switch l.mode {
	case ModeDailyQuiz:
		s = normalizeQuiz(l.game)
	default:
		s = normalizeClassic(l.game)
	}
	s.Player = mergePlayer(s.Player, accountPlayer(state))
	return s, true
}
