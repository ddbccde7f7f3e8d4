package model

import (
	"fmt"
	"strings"
)

// SchemaError reports every required column missing from a dataset at
// load time, not just the first one.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// InvalidDataError reports a cell that could not be coerced to the
// declared column type.
type InvalidDataError struct {
	Row    int
	Column string
	Value  string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("row %d: column %q has non-numeric value %q", e.Row, e.Column, e.Value)
}

// InvalidQueryError rejects an empty or whitespace-only query before
// any matching is attempted.
type InvalidQueryError struct {
	Query string
}

func (e *InvalidQueryError) Error() string {
	return "query must not be empty"
}

// InvalidMoodError reports an unknown mood name.
type InvalidMoodError struct {
	Mood string
}

func (e *InvalidMoodError) Error() string {
	return fmt.Sprintf("unknown mood %q", e.Mood)
}

// InvalidGenreError reports a genre with no catalog matches, exact or
// partial.
type InvalidGenreError struct {
	Genre string
}

func (e *InvalidGenreError) Error() string {
	return fmt.Sprintf("unknown genre %q", e.Genre)
}

// IndexError reports an out-of-bounds row lookup. It should not occur
// given the catalog invariants; RowAt checks defensively.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("row index %d out of range [0, %d)", e.Index, e.Size)
}
