package fuzzy

// Match is the best candidate found by ExtractOne
type Match struct {
	Candidate string
	Index     int
	Score     float64
}

// ExtractOne scores query against every candidate and returns the best one.
// Ties go to the earliest candidate in list order. ok is false only when
// there are no candidates.
func ExtractOne(query string, candidates []string, scorer Scorer) (match Match, ok bool) {
	match.Index = -1
	for i, candidate := range candidates {
		score := scorer(query, candidate)
		if match.Index < 0 || score > match.Score {
			match = Match{Candidate: candidate, Index: i, Score: score}
		}
	}
	return match, match.Index >= 0
}
