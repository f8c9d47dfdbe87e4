// Package text holds the string preparation used before any matching.
package text

import (
	"strings"
	"unicode"
)

// Normalize lowercases the utterance and drops every rune that is neither a
// word character (letter, digit, underscore) nor whitespace. It never fails.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits a normalized string into words
func Tokens(s string) []string {
	return strings.Fields(s)
}

// HasPrefixPhrase reports whether the normalized query starts with phrase on a
// word boundary ("how to" matches "how to order" but not "how tomorrow").
func HasPrefixPhrase(query, phrase string) bool {
	if !strings.HasPrefix(query, phrase) {
		return false
	}
	return len(query) == len(phrase) || query[len(phrase)] == ' '
}

// ContainsPhrase reports whether phrase occurs in the normalized query on word
// boundaries. Multi-word phrases must appear with single spaces between words.
func ContainsPhrase(query, phrase string) bool {
	if phrase == "" {
		return false
	}
	padded := " " + strings.Join(Tokens(query), " ") + " "
	return strings.Contains(padded, " "+phrase+" ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
