package recommend

import (
	"context"
	"testing"

	"wtf2eat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorerCandidates() []entity.Restaurant {
	return []entity.Restaurant{
		{PlaceId: "a", Name: "Thai", Reviews: []string{"Review 1: spicy thai curry"}},
		{PlaceId: "b", Name: "Burger Barn", Reviews: []string{"Review 1: juicy burger"}},
		{PlaceId: "c", Name: "Calm", Reviews: []string{"Review 1: very quiet"}},
	}
}

func TestTagCandidates_NoPreferences(t *testing.T) {
	ctx := context.Background()
	cands := scorerCandidates()
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	tagged, err := TagCandidates(ctx, ix, cands, nil)
	require.NoError(t, err)
	require.Len(t, tagged, 3)
	for _, tc := range tagged {
		assert.Equal(t, PrefNone, tc.PrefNote)
	}
}

func TestTagCandidates_BoostAndPop(t *testing.T) {
	ctx := context.Background()
	cands := scorerCandidates()
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	prefs := []string{"I love spicy thai", "I hate Burger Barn"}
	tagged, err := TagCandidates(ctx, ix, cands, prefs)
	require.NoError(t, err)

	notes := map[string]PrefNote{}
	for _, tc := range tagged {
		notes[tc.Restaurant.PlaceId] = tc.PrefNote
	}
	assert.Equal(t, PrefBoost, notes["a"])
	// boosted by review similarity to "burger" but popped by the dislike
	assert.Equal(t, PrefPop, notes["b"])
	assert.Equal(t, PrefNone, notes["c"])
}

func TestTagCandidates_PopOverridesBoost(t *testing.T) {
	ctx := context.Background()
	cands := []entity.Restaurant{
		{PlaceId: "x", Name: "Sushi Go", Reviews: []string{"Review 1: great sushi"}},
	}
	ix, err := BuildIndex(ctx, &wordEmbedder{}, cands)
	require.NoError(t, err)

	boostOnly, err := TagCandidates(ctx, ix, cands, []string{"sushi please"})
	require.NoError(t, err)
	assert.Equal(t, PrefBoost, boostOnly[0].PrefNote)

	both, err := TagCandidates(ctx, ix, cands, []string{"sushi please", "avoid sushi go"})
	require.NoError(t, err)
	assert.Equal(t, PrefPop, both[0].PrefNote)
}
