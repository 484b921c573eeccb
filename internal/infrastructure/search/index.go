package search

import (
	"sort"
	"sync/atomic"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
	"github.com/alchemorsel/souschef/pkg/errors"
)

// Match pairs a recipe with its similarity score for one query.
type Match struct {
	Recipe *recipe.Recipe
	Score  float64
}

// Index is an immutable snapshot of the recipe corpus together with the
// vectorizer fitted on it and the corpus vectors. Vectorizer and vectors
// are always built from the same corpus, so a query transformed by the
// index is comparable with every stored vector.
type Index struct {
	recipes    []*recipe.Recipe
	vectorizer *Vectorizer
	vectors    []Vector
}

// BuildIndex fits a fresh vectorizer over the recipes' cleaned ingredients
// and returns a ready-to-query index.
func BuildIndex(recipes []*recipe.Recipe) (*Index, error) {
	if len(recipes) == 0 {
		return nil, errors.NewDataUnavailableError("corpus", nil)
	}

	documents := make([]string, len(recipes))
	for i, r := range recipes {
		documents[i] = r.CleanedIngredients()
	}

	vectorizer := NewVectorizer()
	vectors, err := vectorizer.Fit(documents)
	if err != nil {
		return nil, err
	}

	return &Index{
		recipes:    recipes,
		vectorizer: vectorizer,
		vectors:    vectors,
	}, nil
}

// Size returns the number of indexed recipes.
func (ix *Index) Size() int {
	return len(ix.recipes)
}

// Recipes returns the indexed recipes in corpus order.
func (ix *Index) Recipes() []*recipe.Recipe {
	return ix.recipes
}

// Retrieve returns up to topK recipes whose cosine similarity to the query
// is at least minScore, sorted by descending score. Equal scores keep
// corpus order. A query with no known terms matches nothing.
func (ix *Index) Retrieve(query string, topK int, minScore float64) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryVec, err := ix.vectorizer.Transform(query)
	if err != nil {
		return nil, err
	}
	// A query with no known terms has a zero vector and matches nothing,
	// regardless of how low the score floor is set.
	if len(queryVec) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, topK)
	for i, vec := range ix.vectors {
		score := Dot(queryVec, vec)
		if score < minScore {
			continue
		}
		matches = append(matches, Match{Recipe: ix.recipes[i], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Holder publishes the current index and lets a background rebuild swap in
// a replacement atomically. Readers always observe a complete index.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder creates a holder seeded with the given index.
func NewHolder(index *Index) *Holder {
	h := &Holder{}
	h.current.Store(index)
	return h
}

// Get returns the currently published index.
func (h *Holder) Get() *Index {
	return h.current.Load()
}

// Swap publishes a replacement index.
func (h *Holder) Swap(index *Index) {
	h.current.Store(index)
}
