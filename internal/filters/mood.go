// Package filters implements the exploratory recommendation paths:
// mood-range filtering, random sampling with popularity/genre
// constraints, a region keyword heuristic, and k-means vibe clusters.
// All sampling is without replacement and uses a caller-supplied,
// request-scoped random source.
package filters

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// featureRange is a closed interval constraint on one feature.
type featureRange struct {
	feature int
	min     float64
	max     float64
}

// moodFilters maps each mood to the range constraints a row must ALL
// satisfy. Values follow the audio-feature conventions: valence and
// energy in [0,1], tempo in BPM.
var moodFilters = map[string][]featureRange{
	"happy": {
		{model.FeatValence, 0.7, 1.0},
		{model.FeatEnergy, 0.6, 1.0},
	},
	"sad": {
		{model.FeatValence, 0.0, 0.3},
		{model.FeatEnergy, 0.0, 0.4},
	},
	"energetic": {
		{model.FeatEnergy, 0.8, 1.0},
		{model.FeatTempo, 120, 200},
	},
	"calm": {
		{model.FeatEnergy, 0.0, 0.3},
		{model.FeatAcousticness, 0.7, 1.0},
	},
}

// Moods lists the supported mood names, sorted.
func Moods() []string {
	out := make([]string, 0, len(moodFilters))
	for m := range moodFilters {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ByMood filters the catalog to rows satisfying every range constraint
// of the mood, then samples up to count rows without replacement.
// Unknown moods fail with InvalidMoodError; an empty filtered set is
// an empty result, not an error.
func ByMood(cat *catalog.Catalog, mood string, count int, rng *rand.Rand) ([]int, error) {
	ranges, ok := moodFilters[strings.ToLower(mood)]
	if !ok {
		return nil, &model.InvalidMoodError{Mood: mood}
	}

	var eligible []int
	for i, rec := range cat.Records() {
		if matchesRanges(rec.Features, ranges) {
			eligible = append(eligible, i)
		}
	}

	return sampleWithoutReplacement(eligible, count, rng), nil
}

func matchesRanges(v model.FeatureVector, ranges []featureRange) bool {
	for _, r := range ranges {
		if v[r.feature] < r.min || v[r.feature] > r.max {
			return false
		}
	}
	return true
}
