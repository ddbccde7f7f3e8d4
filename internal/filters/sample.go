package filters

import (
	"math/rand"
	"strings"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// RandomSample filters by popularity floor and an optional exact
// case-insensitive genre, then samples up to count rows without
// replacement. Fewer eligible rows than requested returns them all.
func RandomSample(cat *catalog.Catalog, count, minPopularity int, genre string, rng *rand.Rand) []int {
	wantGenre := strings.ToLower(strings.TrimSpace(genre))

	var eligible []int
	for i, rec := range cat.Records() {
		if rec.Popularity < minPopularity {
			continue
		}
		if wantGenre != "" && strings.ToLower(rec.Genre) != wantGenre {
			continue
		}
		eligible = append(eligible, i)
	}

	return sampleWithoutReplacement(eligible, count, rng)
}

// ByGenre samples count rows from a genre. Matching is exact
// case-insensitive first; when nothing matches exactly it falls back
// to substring matching, so "rock" also reaches "indie rock". A genre
// with no matches at all fails with InvalidGenreError.
func ByGenre(cat *catalog.Catalog, genre string, count int, rng *rand.Rand) ([]int, error) {
	want := strings.ToLower(strings.TrimSpace(genre))

	var eligible []int
	for i, rec := range cat.Records() {
		if strings.ToLower(rec.Genre) == want {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		for i, rec := range cat.Records() {
			if strings.Contains(strings.ToLower(rec.Genre), want) {
				eligible = append(eligible, i)
			}
		}
	}
	if len(eligible) == 0 {
		return nil, &model.InvalidGenreError{Genre: genre}
	}

	return sampleWithoutReplacement(eligible, count, rng), nil
}

// sampleWithoutReplacement picks up to count distinct elements of
// eligible, uniformly at random. The input slice is never mutated.
func sampleWithoutReplacement(eligible []int, count int, rng *rand.Rand) []int {
	if count <= 0 || len(eligible) == 0 {
		return nil
	}
	if count > len(eligible) {
		count = len(eligible)
	}

	out := make([]int, 0, count)
	for _, p := range rng.Perm(len(eligible))[:count] {
		out = append(out, eligible[p])
	}
	return out
}
