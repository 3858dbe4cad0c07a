// Package recommend holds the deterministic half of the recommendation
// pipeline: deduplication, preference tagging and ranking of restaurants.
package recommend

import "wtf2eat-be/internal/entity"

// PrefNote tags a candidate against the user's stored preferences.
type PrefNote string

const (
	PrefNone  PrefNote = "none"
	PrefBoost PrefNote = "boost"
	PrefPop   PrefNote = "pop"
)

const (
	// SearchLimit caps every similarity search over the candidate index.
	SearchLimit = 9

	BoostThreshold = 0.4
	BoostDelta     = 0.04
	PopDelta       = -0.06
)

type ScoredCandidate struct {
	Restaurant entity.Restaurant
	PrefNote   PrefNote
	Score      float64
}

// RankedRestaurant is one row of the final output, best first.
type RankedRestaurant struct {
	PlaceId  string                `json:"place_id"`
	Name     string                `json:"name"`
	Score    float64               `json:"score"`
	Rating   float64               `json:"rating"`
	Delivery entity.DeliveryStatus `json:"delivery"`
	MapsUri  string                `json:"maps_uri"`
	Photo    string                `json:"photo"`
	PrefNote PrefNote              `json:"pref_note"`
}

// DedupeByName keeps the first candidate of every name.
func DedupeByName(candidates []entity.Restaurant) []entity.Restaurant {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]entity.Restaurant, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
