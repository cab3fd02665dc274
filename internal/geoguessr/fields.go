package geoguessr

import (
	"math"
	"strconv"
	"strings"
)

// The state blob has no schema we can rely on. Every logical field is read
// through a prioritized list of candidate paths; the first candidate holding a
// value of the right type wins and everything else is treated as absent.

// lookup walks a dotted path through nested objects. Numeric segments index
// into arrays, so "guesses.0.lat" reads the first guess.
func lookup(v any, path string) (any, bool) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

func objectAt(v any, path string) (map[string]any, bool) {
	raw, ok := lookup(v, path)
	if !ok {
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	return obj, ok
}

func arrayAt(v any, path string) ([]any, bool) {
	raw, ok := lookup(v, path)
	if !ok {
		return nil, false
	}
	arr, ok := raw.([]any)
	return arr, ok
}

// numberAt only accepts finite JSON numbers. Strings, booleans and objects
// are absent, never coerced.
func numberAt(v any, path string) (float64, bool) {
	raw, ok := lookup(v, path)
	if !ok {
		return 0, false
	}
	f, ok := raw.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// textAt accepts non-empty strings and integral numbers (user ids are
// sometimes serialized as numbers).
func textAt(v any, path string) (string, bool) {
	raw, ok := lookup(v, path)
	if !ok {
		return "", false
	}
	switch t := raw.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10), true
		}
	}
	return "", false
}

// numberField is a prioritized list of candidate paths for one numeric value.
type numberField struct {
	paths []string
	valid func(float64) bool
}

func numbers(paths ...string) numberField {
	return numberField{paths: paths}
}

// within restricts accepted values to [lo, hi]. Out-of-range candidates are
// skipped like any other wrong-typed value.
func (f numberField) within(lo, hi float64) numberField {
	f.valid = func(v float64) bool { return v >= lo && v <= hi }
	return f
}

func (f numberField) read(v any) (float64, bool) {
	for _, p := range f.paths {
		n, ok := numberAt(v, p)
		if !ok {
			continue
		}
		if f.valid != nil && !f.valid(n) {
			continue
		}
		return n, true
	}
	return 0, false
}

func (f numberField) ptr(v any) *float64 {
	n, ok := f.read(v)
	if !ok {
		return nil
	}
	return &n
}

// intPtr rounds to the nearest integer; scores occasionally arrive as 4999.0.
func (f numberField) intPtr(v any) *int {
	n, ok := f.read(v)
	if !ok {
		return nil
	}
	i := int(math.Round(n))
	return &i
}

// textField is a prioritized list of candidate paths for one string value.
type textField []string

func (f textField) read(v any) (string, bool) {
	for _, p := range f {
		if s, ok := textAt(v, p); ok {
			return s, true
		}
	}
	return "", false
}

func (f textField) ptr(v any) *string {
	s, ok := f.read(v)
	if !ok {
		return nil
	}
	return &s
}

// firstObject returns the first candidate path holding a non-null object.
func firstObject(v any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		if obj, ok := objectAt(v, p); ok {
			return obj, true
		}
	}
	return nil, false
}

const (
	maxRoundScore = 5000
	maxRounds     = 100
)

// Field catalogue. Order inside each list is the priority order.
var (
	latitude  = numbers("lat").within(-90, 90)
	longitude = numbers("lng").within(-180, 180)

	roundNumberField = numbers("roundNumber").within(1, math.MaxInt32)

	classicTotalScore    = numbers("totalScore", "totalScore.amount", "score", "score.amount").within(0, math.MaxInt32)
	classicTotalDistance = numbers("totalDistanceInMeters", "totalDistance.meters.amount", "totalDistance").within(0, math.MaxFloat64)
	classicPlayedRounds  = numbers("round", "currentRoundNumber").within(0, math.MaxInt32)
	classicGuessScore    = numbers("roundScoreInPoints", "roundScore.amount", "score.amount", "score").within(0, maxRoundScore)
	classicGuessDistance = numbers("distanceInMeters", "distance.meters.amount", "distance").within(0, math.MaxFloat64)

	quizTotalScore    = numbers("totalScore", "totalScore.amount").within(0, math.MaxInt32)
	quizTotalDistance = numbers("totalDistance", "totalDistanceInMeters", "totalDistance.meters.amount").within(0, math.MaxFloat64)
	quizRoundCount    = numbers("totalRounds", "roundCount").within(0, maxRounds)
	quizGuessScore    = numbers("score", "roundScore", "roundScoreInPoints", "score.amount", "roundScore.amount").within(0, maxRoundScore)
	quizGuessDistance = numbers("distance", "distanceInMeters", "distance.meters.amount").within(0, math.MaxFloat64)
	quizTargetLat     = numbers("question.panoramaQuestionPayload.panorama.lat", "question.panoramaQuestionPayload.lat").within(-90, 90)
	quizTargetLng     = numbers("question.panoramaQuestionPayload.panorama.lng", "question.panoramaQuestionPayload.lng").within(-180, 180)

	gameTokenField   = textField{"token", "gameToken"}
	quizIDField      = textField{"quizId"}
	dailyQuizIDField = textField{"dailyQuizId"}

	signatureID    = textField{"quizId", "dailyQuizId", "token", "gameToken"}
	signatureRound = textField{"currentRound", "currentRoundNumber", "round"}

	playerIDField      = textField{"id", "userId"}
	playerNameField    = textField{"nick", "displayName", "name"}
	playerCountryField = textField{"countryCode"}
	playerEmailField   = textField{"email", "settings.email"}
)
