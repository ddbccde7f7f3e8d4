// Package catalog holds the in-memory song table together with the
// parallel matrix of standardized feature vectors. A catalog is built
// once from loaded records and is read-only afterwards; appending
// songs means building a fresh catalog and swapping it in.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarthakvats/melodia/internal/model"
	"github.com/sarthakvats/melodia/internal/scaler"
)

// Column selects which text field TextSearch scans.
type Column int

const (
	ColumnTitle Column = iota
	ColumnArtist
	ColumnAlbum
	ColumnGenre
)

// MaxSearchResults caps combined Search output.
const MaxSearchResults = 10

// GenreCount is one distinct genre with its row count.
type GenreCount struct {
	Genre string
	Count int
}

// Catalog is the immutable record table plus standardized vectors.
// Invariant: len(vectors) == len(records), same index.
type Catalog struct {
	records []model.SongRecord
	vectors []model.FeatureVector
	state   *scaler.State
}

// New fits the scaler over the records' raw features and standardizes
// every row.
func New(records []model.SongRecord) (*Catalog, error) {
	matrix := make([]model.FeatureVector, len(records))
	for i, r := range records {
		matrix[i] = r.Features
	}

	state, err := scaler.Fit(matrix)
	if err != nil {
		return nil, fmt.Errorf("fitting scaler: %w", err)
	}

	vectors := make([]model.FeatureVector, len(records))
	for i, raw := range matrix {
		vectors[i] = state.Transform(raw)
	}

	return &Catalog{records: records, vectors: vectors, state: state}, nil
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.records) }

// RowAt returns the record at index i. Out-of-bounds lookups return an
// IndexError; with intact invariants this path is never taken.
func (c *Catalog) RowAt(i int) (model.SongRecord, error) {
	if i < 0 || i >= len(c.records) {
		return model.SongRecord{}, &model.IndexError{Index: i, Size: len(c.records)}
	}
	return c.records[i], nil
}

// VectorAt returns the standardized vector for row i. Callers must
// pass a valid index.
func (c *Catalog) VectorAt(i int) model.FeatureVector { return c.vectors[i] }

// Records exposes the full record slice for read-only iteration.
func (c *Catalog) Records() []model.SongRecord { return c.records }

// Scaler returns the fitted scaler state.
func (c *Catalog) Scaler() *scaler.State { return c.state }

func (c *Catalog) field(r model.SongRecord, col Column) string {
	switch col {
	case ColumnTitle:
		return r.Title
	case ColumnArtist:
		return r.Artist
	case ColumnAlbum:
		return r.Album
	case ColumnGenre:
		return r.Genre
	}
	return ""
}

// TextSearch scans one column for a case-insensitive substring and
// returns matching row indices in dataset order. No match is an empty
// result, not an error.
func (c *Catalog) TextSearch(col Column, substr string) []int {
	needle := strings.ToLower(substr)
	var out []int
	for i, r := range c.records {
		if strings.Contains(strings.ToLower(c.field(r, col)), needle) {
			out = append(out, i)
		}
	}
	return out
}

// Search scans title, artist and album for the query and returns
// deduplicated row indices in dataset order, capped at
// MaxSearchResults.
func (c *Catalog) Search(query string) []int {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	seen := make(map[int]struct{})
	var out []int
	for _, col := range []Column{ColumnTitle, ColumnArtist, ColumnAlbum} {
		for _, i := range c.TextSearch(col, needle) {
			if _, dup := seen[i]; dup {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}

	sort.Ints(out)
	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}
	return out
}

// Genres aggregates distinct genre values with per-genre counts,
// sorted alphabetically for display determinism.
func (c *Catalog) Genres() []GenreCount {
	counts := make(map[string]int)
	for _, r := range c.records {
		counts[r.Genre]++
	}

	out := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GenreCount{Genre: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Genre < out[j].Genre })
	return out
}
