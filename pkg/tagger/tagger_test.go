package tagger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidates = []string{"machine learning", "python", "docker", "kubernetes", "git", "web"}

func TestScores(t *testing.T) {
	text := "Machine learning with Python. More machine learning, then Docker."
	scores := New(nil).Scores(text, candidates)

	require.Len(t, scores, len(candidates))
	assert.Equal(t, Score{Label: "machine learning", Value: 1}, scores[0])
	assert.Equal(t, "python", scores[1].Label)
	assert.InDelta(t, 0.5, scores[1].Value, 1e-9)
	assert.Equal(t, "docker", scores[2].Label)
	assert.Zero(t, scores[len(scores)-1].Value)
}

func TestLabel(t *testing.T) {
	tg := New(nil)

	tests := []struct {
		name      string
		text      string
		threshold float64
		want      []string
	}{
		{
			name:      "single dominant label",
			text:      strings.Repeat("kubernetes ", 10) + "docker",
			threshold: 0.45,
			want:      []string{"kubernetes"},
		},
		{
			name:      "threshold lowered until something matches",
			text:      strings.Repeat("git ", 10) + "python",
			threshold: 1.0,
			want:      []string{"git"},
		},
		{
			name:      "too many labels raises the threshold",
			text:      "python python python python docker docker docker git git web",
			threshold: 0.1,
			want:      []string{"python", "docker", "git"},
		},
		{
			name:      "no candidate in text",
			text:      "nothing relevant here",
			threshold: 0.45,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tg.Label(tt.text, candidates, tt.threshold)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 3)
		})
	}
}

func TestCountSequence(t *testing.T) {
	words := tokenize("C++ and c++ beat C#, said the C++ fan")
	assert.Equal(t, 3, countSequence(words, tokenize("c++")))
	assert.Equal(t, 1, countSequence(words, tokenize("c#")))
	assert.Equal(t, 0, countSequence(words, nil))
}
