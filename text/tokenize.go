package text

import (
	"regexp"
)

const (
	// MinNGram and MaxNGram bound the n-gram sizes emitted by Terms.
	MinNGram = 1
	MaxNGram = 2
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Tokenize splits normalized text into word tokens of at least two characters.
func Tokenize(s string) []string {
	return tokenPattern.FindAllString(s, -1)
}

// Terms returns the vocabulary terms of normalized text: stop words are
// removed, then every unigram is emitted in order followed by every bigram.
// Bigrams join adjacent surviving tokens with a single space.
// Terms repeat as often as they occur.
func Terms(s string) []string {
	tokens := Tokenize(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	terms := make([]string, 0, len(kept)*MaxNGram)
	for n := MinNGram; n <= MaxNGram; n++ {
		for i := 0; i+n <= len(kept); i++ {
			term := kept[i]
			for j := 1; j < n; j++ {
				term += " " + kept[i+j]
			}
			terms = append(terms, term)
		}
	}
	return terms
}
