package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and stems", "Programming Languages", "program languag"},
		{"keeps token order", "running dogs jumped", "run dog jump"},
		{"collapses whitespace", "  Data \t Structures\n", "data structur"},
		{"keeps stop words", "the art of computing", "the art of comput"},
		{"strips non-ascii", "café résumé", "caf rsum"},
		{"keeps punctuation around stems", "objects, (graphs)", "object, (graph)"},
		{"stems each run in a token", "object-oriented", "object-orient"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	const name = "Introduction to Algorithms and Data Structures"
	once := Normalize(name)
	assert.Equal(t, once, Normalize(name))
	assert.Equal(t, "introduct to algorithm and data structur", once)
}

func TestStripNonASCII(t *testing.T) {
	assert.Equal(t, "nave", StripNonASCII("naïve"))
	assert.Equal(t, "abc", StripNonASCII("abc"))
	assert.Equal(t, "", StripNonASCII("日本"))
}

func TestNormalize_DropsNonASCIIBeforeStemming(t *testing.T) {
	got := Normalize("Naïve Programs")
	assert.Equal(t, Normalize("nave programs"), got)
	assert.NotContains(t, got, "ï")
	assert.Equal(t, []string{"nave", "program"}, strings.Fields(got))
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("and"))
	assert.False(t, IsStopWord("computer"))
	assert.False(t, IsStopWord("The"), "stop words are matched lowercase")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"object", "orient", "cs"}, Tokenize("object-orient, a cs"))
	assert.Empty(t, Tokenize("a & b"))
}

func TestTerms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unigrams then bigrams",
			input: "data structur algorithm",
			want:  []string{"data", "structur", "algorithm", "data structur", "structur algorithm"},
		},
		{
			name:  "bigrams span removed stop words",
			input: "intro to program",
			want:  []string{"intro", "program", "intro program"},
		},
		{
			name:  "repeated terms are kept",
			input: "art art",
			want:  []string{"art", "art", "art art"},
		},
		{
			name:  "single token has no bigram",
			input: "calculus",
			want:  []string{"calculus"},
		},
		{
			name:  "only stop words",
			input: "the and of",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Terms(tt.input))
		})
	}
}
