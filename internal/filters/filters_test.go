package filters

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

func rec(title, artist, album, genre string, pop int, energy, tempo, dance, valence, acoustic float64) model.SongRecord {
	return model.SongRecord{
		Title: title, Artist: artist, Album: album, Genre: genre, Popularity: pop,
		Features: model.FeatureVector{
			model.FeatEnergy:       energy,
			model.FeatTempo:        tempo,
			model.FeatDanceability: dance,
			model.FeatLoudness:     -7,
			model.FeatLiveness:     0.15,
			model.FeatValence:      valence,
			model.FeatSpeechiness:  0.05,
			model.FeatAcousticness: acoustic,
		},
	}
}

func testRecords() []model.SongRecord {
	return []model.SongRecord{
		rec("Happy Hit", "A", "Album1", "pop", 90, 0.8, 128, 0.9, 0.9, 0.1),       // happy, energetic
		rec("Sad Ballad", "B", "Album2", "pop", 40, 0.2, 70, 0.3, 0.1, 0.5),       // sad
		rec("Quiet Morning", "C", "Album3", "acoustic", 30, 0.2, 90, 0.4, 0.5, 0.9), // calm
		rec("Tum Hi Ho", "Arijit Singh", "Aashiqui 2", "bollywood", 70, 0.3, 94, 0.5, 0.3, 0.8),
		rec("Indie Tune", "D", "Album5", "indie rock", 55, 0.6, 110, 0.6, 0.6, 0.3),
		rec("Stadium Rock", "E", "Album6", "rock", 75, 0.95, 140, 0.7, 0.7, 0.05), // energetic
	}
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testRecords())
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return c
}

func testRNG() *rand.Rand { return rand.New(rand.NewSource(1)) }

func TestByMoodFiltersRanges(t *testing.T) {
	cat := newTestCatalog(t)

	got, err := ByMood(cat, "sad", 10, testRNG())
	if err != nil {
		t.Fatalf("ByMood failed: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("ByMood(sad) = %v, want [1]", got)
	}

	got, err = ByMood(cat, "ENERGETIC", 10, testRNG())
	if err != nil {
		t.Fatalf("ByMood failed: %v", err)
	}
	for _, i := range got {
		f := cat.Records()[i].Features
		if f[model.FeatEnergy] < 0.8 || f[model.FeatTempo] < 120 || f[model.FeatTempo] > 200 {
			t.Errorf("row %d violates energetic ranges: %v", i, f)
		}
	}
}

func TestByMoodUnknown(t *testing.T) {
	cat := newTestCatalog(t)

	var moodErr *model.InvalidMoodError
	if _, err := ByMood(cat, "grumpy", 5, testRNG()); !errors.As(err, &moodErr) {
		t.Errorf("ByMood(grumpy) error = %v, want InvalidMoodError", err)
	}
}

func TestByMoodEmptyFilteredSet(t *testing.T) {
	// No row satisfies happy (valence>=0.7 AND energy>=0.6).
	records := []model.SongRecord{
		rec("Low", "A", "X", "pop", 50, 0.3, 100, 0.5, 0.2, 0.4),
		rec("Mid", "B", "Y", "pop", 50, 0.5, 110, 0.5, 0.5, 0.4),
	}
	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	got, err := ByMood(cat, "happy", 5, testRNG())
	if err != nil {
		t.Fatalf("ByMood on empty filtered set errored: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ByMood = %v, want empty", got)
	}
}

func TestRandomSampleNoDuplicatesNoOverdraw(t *testing.T) {
	cat := newTestCatalog(t)

	for trial := 0; trial < 20; trial++ {
		got := RandomSample(cat, 4, 0, "", rand.New(rand.NewSource(int64(trial))))
		if len(got) != 4 {
			t.Fatalf("sample size = %d, want 4", len(got))
		}
		seen := make(map[int]bool)
		for _, i := range got {
			if seen[i] {
				t.Fatalf("trial %d: duplicate row %d in sample %v", trial, i, got)
			}
			seen[i] = true
		}
	}

	// Requesting more than available returns all available.
	got := RandomSample(cat, 100, 0, "pop", testRNG())
	if len(got) != 2 {
		t.Errorf("oversized request returned %d rows, want 2", len(got))
	}
}

func TestRandomSamplePopularityAndGenre(t *testing.T) {
	cat := newTestCatalog(t)

	got := RandomSample(cat, 10, 60, "", testRNG())
	for _, i := range got {
		if cat.Records()[i].Popularity < 60 {
			t.Errorf("row %d below popularity floor", i)
		}
	}

	got = RandomSample(cat, 10, 0, "ROCK", testRNG())
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("genre filter is not exact case-insensitive: %v", got)
	}
}

func TestByGenrePartialFallback(t *testing.T) {
	cat := newTestCatalog(t)

	// No genre equals "indie", but "indie rock" contains it.
	got, err := ByGenre(cat, "indie", 10, testRNG())
	if err != nil {
		t.Fatalf("ByGenre failed: %v", err)
	}
	if len(got) != 1 || got[0] != 4 {
		t.Errorf("ByGenre(indie) = %v, want [4]", got)
	}

	var genreErr *model.InvalidGenreError
	if _, err := ByGenre(cat, "polka", 5, testRNG()); !errors.As(err, &genreErr) {
		t.Errorf("ByGenre(polka) error = %v, want InvalidGenreError", err)
	}
}

func TestByRegionHeuristic(t *testing.T) {
	cat := newTestCatalog(t)

	got := ByRegionHeuristic(cat, 10, 0, testRNG())
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("ByRegionHeuristic = %v, want [3] (Arijit Singh row)", got)
	}

	// Popularity floor above the only match empties the result.
	if got := ByRegionHeuristic(cat, 10, 80, testRNG()); len(got) != 0 {
		t.Errorf("ByRegionHeuristic with floor 80 = %v, want empty", got)
	}
}

func TestVibeClusters(t *testing.T) {
	cat := newTestCatalog(t)

	got, err := VibeClusters(cat, 2)
	if err != nil {
		t.Fatalf("VibeClusters failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("cluster count = %d, want 2", len(got))
	}

	seen := make(map[int]bool)
	total := 0
	for _, c := range got {
		for _, name := range []string{"energy", "valence", "danceability", "acousticness"} {
			if _, ok := c.Centroid[name]; !ok {
				t.Errorf("centroid missing %s", name)
			}
		}
		for _, row := range c.Rows {
			if seen[row] {
				t.Errorf("row %d assigned to multiple clusters", row)
			}
			seen[row] = true
			total++
		}
	}
	if total != cat.Len() {
		t.Errorf("clusters cover %d rows, want %d", total, cat.Len())
	}
}

func TestVibeClustersTooFewSongs(t *testing.T) {
	records := testRecords()[:2]
	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	if _, err := VibeClusters(cat, 5); err == nil {
		t.Error("VibeClusters succeeded with k > catalog size")
	}
}
