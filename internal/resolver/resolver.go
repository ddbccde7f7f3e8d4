// Package resolver turns free-text queries into catalog rows through
// an ordered matching cascade: exact title, title substring, artist
// substring, then fuzzy title matching. The first non-empty stage
// wins; within a stage the first row in dataset order is selected.
package resolver

import (
	"fmt"
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/model"
)

// Fuzzy matching defaults. Configuration defaults rather than
// hardwired values: nothing ties correctness to these exact numbers.
const (
	DefaultFuzzyCutoff     float32 = 0.6
	DefaultFuzzyCandidates         = 5
	MaxSuggestions                 = 3
)

// Resolution is the terminal outcome of a resolve attempt. Either
// Found is true and Index names a catalog row, or Found is false and
// Message plus Suggestions describe the miss. No partial state leaks
// to callers.
type Resolution struct {
	Found       bool
	Index       int
	Message     string
	Suggestions []string
}

// Resolver matches query strings against one catalog snapshot.
type Resolver struct {
	cat        *catalog.Catalog
	cutoff     float32
	candidates int

	lowerTitles []string
	titleIndex  map[string]int // lowercased title -> first row in dataset order
}

// New builds a resolver over cat. Non-positive cutoff or candidate
// counts fall back to the defaults.
func New(cat *catalog.Catalog, cutoff float32, candidates int) *Resolver {
	if cutoff <= 0 {
		cutoff = DefaultFuzzyCutoff
	}
	if candidates <= 0 {
		candidates = DefaultFuzzyCandidates
	}

	r := &Resolver{
		cat:         cat,
		cutoff:      cutoff,
		candidates:  candidates,
		lowerTitles: make([]string, cat.Len()),
		titleIndex:  make(map[string]int, cat.Len()),
	}
	for i, rec := range cat.Records() {
		lower := strings.ToLower(rec.Title)
		r.lowerTitles[i] = lower
		if _, ok := r.titleIndex[lower]; !ok {
			r.titleIndex[lower] = i
		}
	}
	return r
}

// Resolve runs the matching cascade for query. An empty or
// whitespace-only query returns InvalidQueryError before any matching
// is attempted.
func (r *Resolver) Resolve(query string) (Resolution, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Resolution{}, &model.InvalidQueryError{Query: query}
	}

	// 1. Case-insensitive exact title match.
	if i, ok := r.titleIndex[q]; ok {
		return Resolution{Found: true, Index: i}, nil
	}

	// 2. Title substring containment.
	if hits := r.cat.TextSearch(catalog.ColumnTitle, q); len(hits) > 0 {
		return Resolution{Found: true, Index: hits[0]}, nil
	}

	// 3. Artist substring containment.
	if hits := r.cat.TextSearch(catalog.ColumnArtist, q); len(hits) > 0 {
		return Resolution{Found: true, Index: hits[0]}, nil
	}

	// 4. Fuzzy title match; first candidate that maps to a row wins.
	candidates := r.fuzzyCandidates(q)
	for _, title := range candidates {
		if i, ok := r.titleIndex[title]; ok {
			return Resolution{Found: true, Index: i}, nil
		}
	}

	suggestions := make([]string, 0, MaxSuggestions)
	for _, title := range candidates {
		if len(suggestions) == MaxSuggestions {
			break
		}
		suggestions = append(suggestions, title)
	}

	return Resolution{
		Found:       false,
		Message:     fmt.Sprintf("song %q not found", strings.TrimSpace(query)),
		Suggestions: suggestions,
	}, nil
}

// fuzzyCandidates returns up to r.candidates lowercased titles whose
// normalized Levenshtein similarity to q meets the cutoff, best first.
func (r *Resolver) fuzzyCandidates(q string) []string {
	matches, err := edlib.FuzzySearchSetThreshold(q, r.lowerTitles, r.candidates, r.cutoff, edlib.Levenshtein)
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}
