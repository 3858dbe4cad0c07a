package recommend

import (
	"context"
	"sort"
)

// AdjustScore applies the preference delta to a raw similarity.
func AdjustScore(score float64, note PrefNote) float64 {
	switch note {
	case PrefBoost:
		return score + BoostDelta
	case PrefPop:
		return score + PopDelta
	}
	return score
}

// Rank scores the tagged candidates by the similarity of their reviews to the
// raw request, applies the preference deltas and sorts best first. Hits that do
// not belong to a tagged candidate are skipped.
func Rank(ctx context.Context, ix *Index, tagged []ScoredCandidate, request string) ([]RankedRestaurant, error) {
	byId := make(map[string]ScoredCandidate, len(tagged))
	for _, t := range tagged {
		byId[t.Restaurant.PlaceId] = t
	}

	hits, err := ix.Search(ctx, request, SearchLimit)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedRestaurant, 0, len(hits))
	for _, h := range hits {
		t, ok := byId[h.Id]
		if !ok {
			continue
		}
		r := t.Restaurant
		ranked = append(ranked, RankedRestaurant{
			PlaceId:  r.PlaceId,
			Name:     r.Name,
			Score:    AdjustScore(h.Score, t.PrefNote),
			Rating:   r.Rating,
			Delivery: r.Delivery,
			MapsUri:  r.MapsUri,
			Photo:    r.PhotoUri,
			PrefNote: t.PrefNote,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}
