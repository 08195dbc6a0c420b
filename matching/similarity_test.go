package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityScore_IdenticalTexts(t *testing.T) {
	text := "Senior backend engineer with Go and MySQL experience"
	score := SimilarityScore(text, text)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityScore_DisjointVocabulary(t *testing.T) {
	score := SimilarityScore(
		"alpha bravo charlie delta",
		"echo foxtrot golf hotel",
	)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestSimilarityScore_PartialOverlap(t *testing.T) {
	score := SimilarityScore(
		"Python, Go, 5 years backend",
		"Requires: Python, 3+ years backend, leadership",
	)
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestSimilarityScore_EmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "both empty", a: "", b: ""},
		{name: "left empty", a: "", b: "backend engineer"},
		{name: "right empty", a: "backend engineer", b: ""},
		{name: "punctuation only", a: "?!, .", b: "backend engineer"},
		{name: "single char tokens only", a: "a b c", b: "backend engineer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, SimilarityScore(tt.a, tt.b))
		})
	}
}

func TestSimilarityScore_CaseInsensitive(t *testing.T) {
	score := SimilarityScore("Backend Engineer GO", "backend engineer go")
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"golang developer", "golang developer with kubernetes"},
		{"data scientist python pandas", "backend golang mysql rabbitmq"},
		{"one two three", "three two one"},
	}
	for _, p := range pairs {
		score := SimilarityScore(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0+1e-9)
	}
}
