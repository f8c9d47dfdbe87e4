// Package fuzzy scores how close two normalized strings are on a 0-100 scale.
// Scores are not rounded; callers compare them against their thresholds as is.
//
// All scorers are built on the InDel similarity (insertions and deletions
// only): 100 * 2 * LCS / (len(a) + len(b)), computed over runes. Inputs are
// expected to be normalized already; the scorers do no case folding.
package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// Scorer compares two strings and returns a similarity in [0, 100]
type Scorer func(a, b string) float64

// Ratio is the plain InDel similarity of the two strings.
// An empty operand always scores 0.
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio aligns the shorter string against every window of the longer
// one, including windows clipped at either end, and keeps the best score.
// A string fully contained in the other scores 100. Equal lengths get the
// clipped windows too: ("abcd", "xabc") scores 85.7, not 75.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	m, n := len(short), len(long)
	best := 0.0
	for start := -(m - 1); start < n; start++ {
		lo, hi := max(start, 0), min(start+m, n)
		score := ratio(short, long[lo:hi])
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSetRatio compares the word sets of both strings, ignoring order and
// repeated words. If one set is contained in the other the score is 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersection, diffAB, diffBA []string
	for tok := range setA {
		if setB[tok] {
			intersection = append(intersection, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			diffBA = append(diffBA, tok)
		}
	}

	if len(intersection) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sect := joinSorted(intersection)
	combinedAB := strings.TrimSpace(sect + " " + joinSorted(diffAB))
	combinedBA := strings.TrimSpace(sect + " " + joinSorted(diffBA))

	best := ratio([]rune(combinedAB), []rune(combinedBA))
	if sect != "" {
		sectRunes := []rune(sect)
		best = math.Max(best, ratio(sectRunes, []rune(combinedAB)))
		best = math.Max(best, ratio(sectRunes, []rune(combinedBA)))
	}
	return best
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

// lcsLength is the longest common subsequence length, two-row DP
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func joinSorted(tokens []string) string {
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
