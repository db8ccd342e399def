package match

import (
	"sort"
)

// SuggestThreshold is the minimum NameSimilarity for a candidate to be suggested.
const SuggestThreshold = 0.75

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates that look like a misspelling of name,
// best match first. Exact matches are not suggested.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		if score := NameSimilarity(name, c); score >= SuggestThreshold {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}

		return ranked[i].name < ranked[j].name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]string, len(ranked))
	for i, r := range ranked {
		result[i] = r.name
	}

	return result
}
