package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/souschef/test/testutils"
)

// Retrieval invariants must hold on arbitrary corpora, not just the
// handcrafted fixtures.
func TestRetrievalPropertiesOnRandomCorpus(t *testing.T) {
	factory := testutils.NewRecipeFactory(42)
	recipes, err := factory.BuildMany(50)
	require.NoError(t, err)

	index, err := BuildIndex(recipes)
	require.NoError(t, err)

	t.Run("SelfQuery_ShouldScoreOne", func(t *testing.T) {
		for _, r := range recipes[:10] {
			matches, err := index.Retrieve(r.CleanedIngredients(), 1, 0.0)
			require.NoError(t, err)
			require.NotEmpty(t, matches)
			assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
		}
	})

	t.Run("AllScores_ShouldBeBounded", func(t *testing.T) {
		for _, r := range recipes[:10] {
			matches, err := index.Retrieve(r.Ingredients(), index.Size(), 0.0)
			require.NoError(t, err)
			for _, m := range matches {
				assert.GreaterOrEqual(t, m.Score, 0.0)
				assert.LessOrEqual(t, m.Score, 1.0+1e-9)
			}
		}
	})

	t.Run("Ranking_ShouldBeDescending", func(t *testing.T) {
		matches, err := index.Retrieve(recipes[0].Ingredients(), index.Size(), 0.0)
		require.NoError(t, err)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})
}
