package text

import "strings"

// InvariantWords look plural but are singular nouns; the trailing "s" stays.
var InvariantWords = map[string]bool{
	"asparagus": true,
	"bus":       true,
	"cactus":    true,
	"chess":     true,
	"citrus":    true,
	"dress":     true,
	"gas":       true,
	"glass":     true,
	"grass":     true,
	"hummus":    true,
	"lens":      true,
	"molasses":  true,
	"news":      true,
	"series":    true,
	"species":   true,
	"swiss":     true,
}

// KeepEWords end in "es" where the "e" belongs to the singular ("shoe" + "s",
// "cheese" + "s"); only the final "s" is removed for them.
var KeepEWords = map[string]bool{
	"canoes":  true,
	"cheeses": true,
	"geese":   true,
	"houses":  true,
	"purses":  true,
	"roses":   true,
	"shoes":   true,
	"toes":    true,
	"vases":   true,
}

// esStems are the endings after which an "es" plural is formed
var esStems = []string{"ss", "sh", "ch", "x", "z", "o"}

// Singularize strips simple English plural endings from one lowercase word.
// It is a heuristic: irregular plurals are left alone and some words come out
// slightly wrong. Callers compare singularized forms on both sides.
func Singularize(word string) string {
	if len(word) <= 3 || InvariantWords[word] {
		return word
	}

	if strings.HasSuffix(word, "ies") {
		return strings.TrimSuffix(word, "ies") + "y"
	}

	if strings.HasSuffix(word, "es") && !KeepEWords[word] {
		stem := strings.TrimSuffix(word, "es")
		for _, suffix := range esStems {
			if strings.HasSuffix(stem, suffix) {
				return stem
			}
		}
	}

	if strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") &&
		!strings.HasSuffix(word, "us") && !strings.HasSuffix(word, "is") {
		return strings.TrimSuffix(word, "s")
	}

	return word
}

// SingularizePhrase singularizes every word of a normalized phrase
func SingularizePhrase(phrase string) string {
	words := Tokens(phrase)
	for i, w := range words {
		words[i] = Singularize(w)
	}
	return strings.Join(words, " ")
}
