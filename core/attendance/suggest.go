package attendance

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// minSuggestionRatio is the lowest similarity for a ledger name to be suggested for a missing student.
const minSuggestionRatio = .75

// Suggest returns, for each missing name, the most similar of `names` (if any is similar enough).
func Suggest(missing, names []string) map[string]string {
	suggestions := make(map[string]string)
	for _, m := range missing {
		mKey := strings.Split(identityKey(m), "")
		var best string
		var bestRatio float64
		for _, n := range names {
			ratio := difflib.NewMatcher(mKey, strings.Split(identityKey(n), "")).Ratio()
			if ratio > bestRatio {
				best, bestRatio = n, ratio
			}
		}
		if bestRatio >= minSuggestionRatio {
			suggestions[m] = best
		}
	}
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions
}
