package search

import (
	"strings"
	"unicode/utf8"
)

// Acronym returns the lowercase initials of name, ignoring the words
// "and" and "&".
func Acronym(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if word == "and" || word == "&" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}

// MatchTitle returns 1 when the query matches the document name and 0
// otherwise. A single-token query matches when it equals the name's
// acronym. Any query matches when every token is a substring of the name.
// A query with no tokens never matches, unlike a plain substring test where
// the empty string is contained in every name.
func MatchTitle(query, name string) float64 {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return 0
	}
	if len(tokens) == 1 && tokens[0] == Acronym(name) {
		return 1
	}

	lowerName := strings.ToLower(name)
	for _, token := range tokens {
		if !strings.Contains(lowerName, token) {
			return 0
		}
	}
	return 1
}
