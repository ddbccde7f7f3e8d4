package filters

import (
	"math/rand"
	"strings"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// regionKeywords is the static table of artist, language and industry
// markers used by the Indian-music heuristic. Not user-editable at
// runtime.
var regionKeywords = []string{
	"rahman", "arijit", "shreya", "sonu", "kumar", "khan", "kapoor",
	"bollywood", "tollywood", "kollywood", "mollywood",
	"hindi", "tamil", "telugu", "malayalam", "bengali", "punjabi",
	"kannada", "marathi", "gujarati", "bhojpuri",
}

// regionGenreMarker additionally admits rows whose genre names the
// region directly.
const regionGenreMarker = "indian"

// ByRegionHeuristic filters rows whose title, artist or album contains
// any region keyword, or whose genre contains the region marker, all
// case-insensitively. Survivors below minPopularity are dropped, then
// up to count rows are sampled without replacement.
func ByRegionHeuristic(cat *catalog.Catalog, count, minPopularity int, rng *rand.Rand) []int {
	var eligible []int
	for i, rec := range cat.Records() {
		if rec.Popularity < minPopularity {
			continue
		}
		if matchesRegion(rec) {
			eligible = append(eligible, i)
		}
	}
	return sampleWithoutReplacement(eligible, count, rng)
}

func matchesRegion(rec model.SongRecord) bool {
	if strings.Contains(strings.ToLower(rec.Genre), regionGenreMarker) {
		return true
	}
	for _, field := range []string{rec.Title, rec.Artist, rec.Album} {
		lower := strings.ToLower(field)
		for _, kw := range regionKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
