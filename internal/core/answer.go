package core

import (
	"regexp"
	"strings"

	"eino_grocery_bot/internal/text"
)

// YesNoAuxiliaries open a yes/no question
var YesNoAuxiliaries = []string{"can", "do", "does", "should", "is", "are", "will"}

// negativeMarkers are matched on the normalized answer, where apostrophes
// are already gone ("doesn’t" becomes "doesnt")
var negativeMarkers = []string{"doesnt sell", "dont sell", "sorry", "unavailable", "not"}

var leadingYesNo = regexp.MustCompile(`(?i)^\s*(yes|no)\b[\s,.!:;-]*`)

// IsYesNoQuestion reports whether the normalized query starts with an auxiliary
func IsYesNoQuestion(query string) bool {
	tokens := text.Tokens(query)
	if len(tokens) == 0 {
		return false
	}
	for _, aux := range YesNoAuxiliaries {
		if tokens[0] == aux {
			return true
		}
	}
	return false
}

// IsNegative reports whether an answer reads as a refusal
func IsNegative(answer string) bool {
	normalized := text.Normalize(answer)
	for _, marker := range negativeMarkers {
		if text.ContainsPhrase(normalized, marker) {
			return true
		}
	}
	return false
}

// WrapYesNo prefixes the answer with exactly one "Yes, " or "No, ",
// replacing any Yes/No the answer already started with. An answer that
// already opened with "No" stays negative.
func WrapYesNo(answer string) string {
	startsWithNo := false
	if m := leadingYesNo.FindStringSubmatch(answer); m != nil {
		startsWithNo = strings.EqualFold(m[1], "no")
	}

	body := leadingYesNo.ReplaceAllString(answer, "")
	if startsWithNo || IsNegative(body) {
		return "No, " + body
	}
	return "Yes, " + body
}
