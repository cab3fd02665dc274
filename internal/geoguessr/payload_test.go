package geoguessr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadDerivesMissingDistance(t *testing.T) {
	s := GameSummary{
		Mode:       ModeClassic,
		TotalScore: ptr(9000),
		Rounds: []RoundResult{
			{RoundNumber: 1, DistanceMeters: ptr(1200.0), Score: ptr(4000)},
			{RoundNumber: 2},
			{RoundNumber: 3, DistanceMeters: ptr(3400.0), Score: ptr(5000)},
		},
	}

	p := BuildPayload(s, "Ana", "friends")

	assert.Equal(t, "Ana", p.PlayerName)
	assert.Equal(t, "friends", p.BoardSlug)
	assert.Equal(t, 9000, p.TotalScore)
	assert.InDelta(t, 4600, p.TotalDistanceMeters, 1e-9)
	require.Len(t, p.Rounds, 3)
	assert.Nil(t, p.Rounds[1].DistanceMeters, "per-round value stays absent")
	assert.Nil(t, p.Rounds[1].Score)
}

func TestBuildPayloadDerivesMissingScore(t *testing.T) {
	s := GameSummary{
		Rounds: []RoundResult{
			{RoundNumber: 1, Score: ptr(1000)},
			{RoundNumber: 2, Score: ptr(250)},
		},
	}
	p := BuildPayload(s, "Bo", "b")
	assert.Equal(t, 1250, p.TotalScore)
	assert.Equal(t, 0.0, p.TotalDistanceMeters)
}

func TestBuildPayloadGameIDPriority(t *testing.T) {
	tests := []struct {
		name string
		s    GameSummary
		want *string
	}{
		{
			name: "daily quiz id first",
			s:    GameSummary{DailyQuizID: ptr("dq"), QuizID: ptr("q"), GameToken: ptr("t")},
			want: ptr("dq"),
		},
		{
			name: "quiz id before token",
			s:    GameSummary{QuizID: ptr("q"), GameToken: ptr("t")},
			want: ptr("q"),
		},
		{
			name: "token",
			s:    GameSummary{GameToken: ptr("t")},
			want: ptr("t"),
		},
		{
			name: "empty string skipped",
			s:    GameSummary{DailyQuizID: ptr(""), GameToken: ptr("t")},
			want: ptr("t"),
		},
		{
			name: "none",
			s:    GameSummary{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPayload(tt.s, "p", "b").GameID)
		})
	}
}

func TestBuildPayloadWireShape(t *testing.T) {
	s, ok := Extract(loadState(t, "quiz_partial.json"))
	require.True(t, ok)

	data, err := json.Marshal(BuildPayload(s, "Ana", "friends"))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	for _, key := range []string{"player_name", "board_slug", "total_score", "total_distance_m", "game_id", "rounds"} {
		assert.Contains(t, wire, key)
	}

	rounds := wire["rounds"].([]any)
	require.Len(t, rounds, 5)
	skipped := rounds[2].(map[string]any)
	for _, key := range []string{"score", "distance_m", "guess_lat", "guess_lng"} {
		assert.Nil(t, skipped[key], "round 3 %s should be null", key)
	}
	assert.NotNil(t, skipped["target_lat"])
}

func TestBuildPayloadEmptyRoundsEncodeAsArray(t *testing.T) {
	data, err := json.Marshal(BuildPayload(GameSummary{}, "p", "b"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rounds":[]`)
	assert.Contains(t, string(data), `"game_id":null`)
}
