package recommend

import (
	"context"

	"wtf2eat-be/internal/entity"
)

// TagCandidates tags every candidate against the stored preferences.
// Any preference whose similarity search scores a candidate at or above
// BoostThreshold boosts it; a matching dislike pops it, overriding boost.
func TagCandidates(ctx context.Context, ix *Index, candidates []entity.Restaurant, preferences []string) ([]ScoredCandidate, error) {
	boosted := make(map[string]bool)
	for _, pref := range preferences {
		hits, err := ix.Search(ctx, pref, SearchLimit)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if h.Score >= BoostThreshold {
				boosted[h.Id] = true
			}
		}
	}

	tagged := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		note := PrefNone
		if boosted[c.PlaceId] {
			note = PrefBoost
		}
		for _, pref := range preferences {
			if CheckNegative(c.Name, pref) == PrefPop {
				note = PrefPop
			}
		}
		tagged[i] = ScoredCandidate{Restaurant: c, PrefNote: note}
	}
	return tagged, nil
}
