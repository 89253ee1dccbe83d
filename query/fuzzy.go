package query

import "strings"

// fuzzyScore scores candidate against query as a subsequence match,
// rewarding consecutive runs and prefix matches, the ranking spec.md
// §4.5's Completions and SPEC_FULL.md's workspace-symbol search both use
// ("Ranking uses a fuzzy matcher with stable tie-breaking by (score
// descending, path ascending, range ascending)"). ok is false when query
// is not a subsequence of candidate at all.
func fuzzyScore(query, candidate string) (score int, ok bool) {
	if query == "" {
		return 0, true
	}
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)

	qi := 0
	consecutive := 0
	for ci := 0; ci < len(c) && qi < len(q); ci++ {
		if c[ci] == q[qi] {
			score += 1 + consecutive
			consecutive++
			qi++
		} else {
			consecutive = 0
		}
	}
	if qi < len(q) {
		return 0, false
	}
	if strings.HasPrefix(c, q) {
		score += 10
	}
	return score, true
}
