// Package search implements TF-IDF indexing and cosine retrieval over the
// recipe corpus.
package search

import (
	"math"

	"github.com/alchemorsel/souschef/internal/domain/recipe"
	"github.com/alchemorsel/souschef/pkg/errors"
)

// Vector is a sparse term-weight vector keyed by vocabulary index.
type Vector map[int]float64

// Vectorizer converts documents into L2-normalized TF-IDF vectors.
// It must be fitted on a corpus before Transform can be used; queries
// are projected onto the fitted vocabulary and unknown terms are dropped.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	fitted     bool
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		vocabulary: make(map[string]int),
	}
}

// Fit learns the vocabulary and inverse document frequencies from the corpus
// and returns the corpus document vectors in input order.
func (v *Vectorizer) Fit(documents []string) ([]Vector, error) {
	if len(documents) == 0 {
		return nil, errors.NewDataUnavailableError("corpus", nil)
	}

	tokenized := make([][]string, len(documents))
	df := make(map[string]int)
	for i, doc := range documents {
		tokens := recipe.Tokenize(doc)
		tokenized[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
			if _, ok := v.vocabulary[t]; !ok {
				v.vocabulary[t] = len(v.vocabulary)
			}
		}
	}

	// Smoothed IDF, so terms present in every document still carry weight
	// and an unseen document frequency can never divide by zero.
	n := float64(len(documents))
	v.idf = make([]float64, len(v.vocabulary))
	for term, idx := range v.vocabulary {
		v.idf[idx] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.fitted = true

	vectors := make([]Vector, len(documents))
	for i, tokens := range tokenized {
		vectors[i] = v.vectorize(tokens)
	}
	return vectors, nil
}

// Transform projects a single document onto the fitted vocabulary.
func (v *Vectorizer) Transform(document string) (Vector, error) {
	if !v.fitted {
		return nil, errors.NewInternalError("vectorizer used before fitting")
	}
	return v.vectorize(recipe.Tokenize(document)), nil
}

// VocabularySize returns the number of distinct terms learned during Fit.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocabulary)
}

func (v *Vectorizer) vectorize(tokens []string) Vector {
	vec := make(Vector)
	for _, t := range tokens {
		idx, ok := v.vocabulary[t]
		if !ok {
			continue
		}
		vec[idx]++
	}

	var norm float64
	for idx := range vec {
		vec[idx] *= v.idf[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// Dot returns the inner product of two sparse vectors. For L2-normalized
// vectors this equals their cosine similarity; a zero vector yields 0.
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}
