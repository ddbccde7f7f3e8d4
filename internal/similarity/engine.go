// Package similarity scores catalog rows against a query row by
// cosine similarity over standardized feature vectors and produces a
// deterministic ranking.
package similarity

import (
	"math"
	"sort"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// Ranked pairs a catalog row index with its similarity score.
type Ranked struct {
	Index int
	Score float64
}

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// A zero-norm vector scores 0 against everything, never a division
// error.
func Cosine(a, b model.FeatureVector) float64 {
	var dot, normA, normB float64
	for i := 0; i < model.NumFeatures; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	na := math.Sqrt(normA)
	nb := math.Sqrt(normB)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (na * nb)
}

// Recommend ranks every catalog row against the row at queryIndex and
// returns the top k survivors. Ordering is descending by score with
// ascending-index tie-break. The query row itself is excluded by
// index, never by score, so a duplicate row tying at 1.0 stays
// eligible. Rows below minPopularity are dropped. Fewer than k
// survivors is a valid, possibly empty, result.
func Recommend(cat *catalog.Catalog, queryIndex, k, minPopularity int) ([]Ranked, error) {
	if _, err := cat.RowAt(queryIndex); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	query := cat.VectorAt(queryIndex)
	scored := make([]Ranked, 0, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		scored = append(scored, Ranked{Index: i, Score: Cosine(query, cat.VectorAt(i))})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	out := make([]Ranked, 0, k)
	for _, s := range scored {
		if s.Index == queryIndex {
			continue
		}
		rec := cat.Records()[s.Index]
		if rec.Popularity < minPopularity {
			continue
		}
		out = append(out, s)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
