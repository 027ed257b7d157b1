package text

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// StripNonASCII removes every non-ASCII rune from s.
func StripNonASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

// Normalize lowercases and stems each whitespace-delimited token of s and
// joins the results with single spaces, preserving token order.
func Normalize(s string) string {
	fields := strings.Fields(StripNonASCII(s))
	for i, f := range fields {
		fields[i] = Stem(strings.ToLower(f))
	}
	return strings.Join(fields, " ")
}

// Stem reduces every alphanumeric run inside token to its stem. Punctuation
// between and around runs is kept, so "object-oriented," stems to
// "object-orient,". Stop words are left as they are.
func Stem(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	start := -1
	for i, r := range token {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(stemWord(token[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(stemWord(token[start:]))
	}
	return b.String()
}

func stemWord(word string) string {
	if IsStopWord(word) {
		return word
	}
	return english.Stem(word, true)
}

func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
