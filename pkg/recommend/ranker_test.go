package recommend

import (
	"context"
	"testing"

	"wtf2eat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustScore_Monotonic(t *testing.T) {
	for _, s := range []float64{-1, 0, 0.33, 0.5, 1} {
		pop := AdjustScore(s, PrefPop)
		none := AdjustScore(s, PrefNone)
		boost := AdjustScore(s, PrefBoost)
		assert.Less(t, pop, none)
		assert.Less(t, none, boost)
		assert.InDelta(t, s, none, 1e-12)
	}
}

func TestRank_PureSimilarityOrder(t *testing.T) {
	ctx := context.Background()
	cands := []entity.Restaurant{
		{PlaceId: "b", Name: "Burger Barn", Reviews: []string{"Review 1: burger"}},
		{PlaceId: "c", Name: "Thai Pizza", Reviews: []string{"Review 1: thai pizza"}},
		{PlaceId: "a", Name: "Thai Spice", Reviews: []string{"Review 1: spicy thai"}},
	}
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	tagged := make([]ScoredCandidate, len(cands))
	for i, c := range cands {
		tagged[i] = ScoredCandidate{Restaurant: c, PrefNote: PrefNone}
	}

	ranked, err := Rank(ctx, ix, tagged, "I love spicy Thai food")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "Thai Spice", ranked[0].Name)
	assert.Equal(t, "Thai Pizza", ranked[1].Name)
	assert.Equal(t, "Burger Barn", ranked[2].Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-6)
	assert.InDelta(t, 0.5, ranked[1].Score, 1e-6)
}

func TestRank_TagsBreakEqualSimilarity(t *testing.T) {
	ctx := context.Background()
	cands := []entity.Restaurant{
		{PlaceId: "p", Name: "Popped", Reviews: []string{"spicy thai"}},
		{PlaceId: "n", Name: "Neutral", Reviews: []string{"spicy thai"}},
		{PlaceId: "b", Name: "Boosted", Reviews: []string{"spicy thai"}},
	}
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	tagged := []ScoredCandidate{
		{Restaurant: cands[0], PrefNote: PrefPop},
		{Restaurant: cands[1], PrefNote: PrefNone},
		{Restaurant: cands[2], PrefNote: PrefBoost},
	}

	ranked, err := Rank(ctx, ix, tagged, "spicy thai")
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"Boosted", "Neutral", "Popped"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
	assert.InDelta(t, 1.04, ranked[0].Score, 1e-6)
	assert.InDelta(t, 0.94, ranked[2].Score, 1e-6)
}

func TestRank_SkipsUnknownIds(t *testing.T) {
	ctx := context.Background()
	cands := []entity.Restaurant{
		{PlaceId: "a", Name: "A", Reviews: []string{"thai"}},
		{PlaceId: "z", Name: "Z", Reviews: []string{"thai"}},
	}
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	ranked, err := Rank(ctx, ix, []ScoredCandidate{{Restaurant: cands[0], PrefNote: PrefNone}}, "thai")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "a", ranked[0].PlaceId)
}

func TestRank_LimitsToSearchLimit(t *testing.T) {
	ctx := context.Background()
	var cands []entity.Restaurant
	var tagged []ScoredCandidate
	for i := 0; i < SearchLimit+3; i++ {
		c := entity.Restaurant{PlaceId: string(rune('a' + i)), Name: string(rune('A' + i)), Reviews: []string{"pizza"}}
		cands = append(cands, c)
		tagged = append(tagged, ScoredCandidate{Restaurant: c, PrefNote: PrefNone})
	}
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	ranked, err := Rank(ctx, ix, tagged, "pizza")
	require.NoError(t, err)
	assert.Len(t, ranked, SearchLimit)
}
