package resolver

import (
	"errors"
	"testing"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

func testRecords() []model.SongRecord {
	base := model.FeatureVector{0.5, 120, 0.5, -8, 0.2, 0.5, 0.1, 0.4}
	return []model.SongRecord{
		{Title: "Shape of You", Artist: "Ed Sheeran", Album: "Divide", Genre: "pop", Popularity: 90, Features: base},
		{Title: "Shape of U", Artist: "X", Album: "Covers", Genre: "pop", Popularity: 10, Features: base},
		{Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Genre: "pop", Popularity: 95, Features: base},
		{Title: "Halo", Artist: "Beyonce", Album: "I Am... Sasha Fierce", Genre: "rnb", Popularity: 80, Features: base},
		{Title: "Hello", Artist: "Adele", Album: "25", Genre: "pop", Popularity: 88, Features: base},
	}
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cat, err := catalog.New(testRecords())
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return New(cat, 0, 0)
}

func TestResolveEmptyQuery(t *testing.T) {
	r := newTestResolver(t)

	var queryErr *model.InvalidQueryError
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := r.Resolve(q); !errors.As(err, &queryErr) {
			t.Errorf("Resolve(%q) error = %v, want InvalidQueryError", q, err)
		}
	}
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	r := newTestResolver(t)

	// "shape of you" matches row 0 exactly; row 1 ("Shape of U") only
	// matches as a fuzzy/substring candidate and must not win.
	res, err := r.Resolve("shape of you")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found || res.Index != 0 {
		t.Errorf("Resolve = %+v, want exact match on row 0", res)
	}
}

func TestResolveTitleSubstring(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("blinding")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found || res.Index != 2 {
		t.Errorf("Resolve(blinding) = %+v, want row 2", res)
	}
}

func TestResolveArtistSubstring(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("weeknd")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found || res.Index != 2 {
		t.Errorf("Resolve(weeknd) = %+v, want row 2", res)
	}
}

func TestResolveFirstInDatasetOrderOnMultiMatch(t *testing.T) {
	r := newTestResolver(t)

	// "shape" is a substring of both row 0 and row 1 titles.
	res, err := r.Resolve("shape")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found || res.Index != 0 {
		t.Errorf("Resolve(shape) = %+v, want first matching row 0", res)
	}
}

func TestResolveFuzzyTypo(t *testing.T) {
	r := newTestResolver(t)

	// Not exact, not a substring of any title or artist, but within
	// edit distance of "Halo".
	res, err := r.Resolve("hala")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found {
		t.Fatalf("Resolve(hala) = %+v, want fuzzy match", res)
	}
	if res.Index != 3 && res.Index != 4 {
		t.Errorf("Resolve(hala) index = %d, want Halo (3) or Hello (4)", res.Index)
	}
}

func TestResolveNotFoundNoSuggestions(t *testing.T) {
	r := newTestResolver(t)

	res, err := r.Resolve("zzzznotasong")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Found {
		t.Fatalf("Resolve(zzzznotasong) = %+v, want NotFound", res)
	}
	if res.Message == "" {
		t.Error("NotFound resolution carries no message")
	}
	if len(res.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want empty", res.Suggestions)
	}
}

func TestResolveDuplicateTitlesPickFirst(t *testing.T) {
	records := testRecords()
	dup := records[0]
	dup.Artist = "Tribute Band"
	records = append(records, dup)

	cat, err := catalog.New(records)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	r := New(cat, 0, 0)

	res, err := r.Resolve("Shape of You")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !res.Found || res.Index != 0 {
		t.Errorf("Resolve = %+v, want first duplicate (row 0)", res)
	}
}
