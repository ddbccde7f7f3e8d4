package catalog

import (
	"errors"
	"testing"

	"github.com/sarthakvats/melodia/internal/model"
)

func testRecords() []model.SongRecord {
	return []model.SongRecord{
		{Title: "Shape of You", Artist: "Ed Sheeran", Album: "Divide", Genre: "pop", Popularity: 90,
			Features: model.FeatureVector{0.65, 96, 0.825, -3.18, 0.093, 0.931, 0.0802, 0.581}},
		{Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Genre: "pop", Popularity: 95,
			Features: model.FeatureVector{0.73, 171, 0.514, -5.93, 0.0897, 0.334, 0.0598, 0.00146}},
		{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", Genre: "rock", Popularity: 85,
			Features: model.FeatureVector{0.402, 143.8, 0.392, -9.96, 0.243, 0.228, 0.0536, 0.288}},
		{Title: "Tum Hi Ho", Artist: "Arijit Singh", Album: "Aashiqui 2", Genre: "bollywood", Popularity: 70,
			Features: model.FeatureVector{0.32, 94, 0.51, -8.4, 0.11, 0.29, 0.033, 0.77}},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(testRecords())
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return c
}

func TestNewEmptyCatalog(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) succeeded, want scaler fit error")
	}
}

func TestVectorMatrixParallelsRecords(t *testing.T) {
	c := newTestCatalog(t)
	if len(c.vectors) != len(c.records) {
		t.Fatalf("len(vectors) = %d, len(records) = %d", len(c.vectors), len(c.records))
	}
}

func TestRowAt(t *testing.T) {
	c := newTestCatalog(t)

	r, err := c.RowAt(2)
	if err != nil {
		t.Fatalf("RowAt(2) failed: %v", err)
	}
	if r.Title != "Bohemian Rhapsody" {
		t.Errorf("RowAt(2).Title = %q", r.Title)
	}

	var idxErr *model.IndexError
	if _, err := c.RowAt(99); !errors.As(err, &idxErr) {
		t.Errorf("RowAt(99) error = %v, want IndexError", err)
	}
	if _, err := c.RowAt(-1); !errors.As(err, &idxErr) {
		t.Errorf("RowAt(-1) error = %v, want IndexError", err)
	}
}

func TestTextSearch(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name   string
		col    Column
		substr string
		want   []int
	}{
		{"title case-insensitive", ColumnTitle, "shape", []int{0}},
		{"artist substring", ColumnArtist, "ARIJIT", []int{3}},
		{"genre shared", ColumnGenre, "pop", []int{0, 1}},
		{"no match is empty not error", ColumnTitle, "zzzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.TextSearch(tt.col, tt.substr)
			if len(got) != len(tt.want) {
				t.Fatalf("TextSearch(%v, %q) = %v, want %v", tt.col, tt.substr, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TextSearch(%v, %q) = %v, want %v", tt.col, tt.substr, got, tt.want)
				}
			}
		})
	}
}

func TestSearchDeduplicatesAcrossColumns(t *testing.T) {
	c := newTestCatalog(t)

	// "hi" hits Tum Hi Ho by title and Aashiqui 2 is the same row's
	// album; the row must appear once.
	got := c.Search("hi")
	seen := make(map[int]bool)
	for _, i := range got {
		if seen[i] {
			t.Errorf("Search returned duplicate index %d", i)
		}
		seen[i] = true
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c := newTestCatalog(t)
	if got := c.Search("   "); got != nil {
		t.Errorf("Search(blank) = %v, want nil", got)
	}
}

func TestGenresSortedWithCounts(t *testing.T) {
	c := newTestCatalog(t)

	got := c.Genres()
	want := []GenreCount{{"bollywood", 1}, {"pop", 2}, {"rock", 1}}
	if len(got) != len(want) {
		t.Fatalf("Genres() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Genres()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
