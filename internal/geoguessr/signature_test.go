package geoguessr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		want   string
		wantOK bool
	}{
		{
			name:   "quiz",
			json:   `{"props":{"pageProps":{"quizGame":{"quizId":"q1","currentRound":3}}}}`,
			want:   "daily_quiz:q1:3",
			wantOK: true,
		},
		{
			name:   "classic token and round",
			json:   `{"props":{"pageProps":{"game":{"token":"tok","round":2}}}}`,
			want:   "classic:tok:2",
			wantOK: true,
		},
		{
			name:   "classic current round number",
			json:   `{"props":{"pageProps":{"game":{"token":"tok","currentRoundNumber":4}}}}`,
			want:   "classic:tok:4",
			wantOK: true,
		},
		{
			name:   "missing fields",
			json:   `{"props":{"pageProps":{"game":{}}}}`,
			want:   "classic:-:-",
			wantOK: true,
		},
		{
			name:   "no game",
			json:   `{"props":{"pageProps":{}}}`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Signature(parse(t, tt.json))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectorGatesIdenticalSignatures(t *testing.T) {
	var d Detector
	extractions := 0

	observe := func(js string) {
		sig, ok := Signature(parse(t, js))
		require.True(t, ok)
		if !d.Changed(sig) {
			return
		}
		if _, ok := Extract(parse(t, js)); ok {
			extractions++
			d.Commit(sig)
		}
	}

	same := `{"props":{"pageProps":{"game":{"token":"tok","round":1,"rounds":[{"lat":1,"lng":1}]}}}}`
	observe(same)
	observe(same)
	assert.Equal(t, 1, extractions)

	observe(`{"props":{"pageProps":{"game":{"token":"tok","round":2,"rounds":[{"lat":1,"lng":1},{"lat":2,"lng":2}]}}}}`)
	assert.Equal(t, 2, extractions)
}

func TestDetectorFirstObservation(t *testing.T) {
	var d Detector
	assert.True(t, d.Changed(""), "first observation always counts")

	d.Commit("a")
	assert.False(t, d.Changed("a"))
	assert.True(t, d.Changed("b"))

	d.Reset()
	assert.True(t, d.Changed("a"))
}
