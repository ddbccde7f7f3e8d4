// Package dataset parses the flat tabular song dataset into catalog
// rows. Validation happens entirely at load time: a missing column or
// a non-numeric cell fails the whole load, there is no partial
// catalog.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sarthakvats/melodia/internal/model"
)

// Required metadata columns, in addition to the feature columns from
// model.FeatureColumns.
const (
	ColTitle      = "track_name"
	ColArtist     = "track_artist"
	ColAlbum      = "track_album_name"
	ColPopularity = "track_popularity"
	ColGenre      = "playlist_genre"
	ColDuration   = "duration_ms"
)

func requiredColumns() []string {
	cols := []string{ColTitle, ColArtist, ColAlbum, ColPopularity, ColGenre, ColDuration}
	return append(cols, model.FeatureColumns[:]...)
}

// Load reads and parses the CSV dataset at path.
func Load(path string) ([]model.SongRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return records, nil
}

// Parse reads CSV rows from r. The first row must be a header naming
// every required column; extra columns are ignored. Returns a
// *model.SchemaError listing ALL missing columns at once.
func Parse(r io.Reader) ([]model.SongRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &model.SchemaError{Missing: missing}
	}

	var records []model.SongRecord
	rowNum := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNum+1, err)
		}
		rowNum++

		rec := model.SongRecord{
			Title:  strings.TrimSpace(row[index[ColTitle]]),
			Artist: strings.TrimSpace(row[index[ColArtist]]),
			Album:  strings.TrimSpace(row[index[ColAlbum]]),
			Genre:  strings.TrimSpace(row[index[ColGenre]]),
		}

		if rec.Popularity, err = parseInt(row[index[ColPopularity]], rowNum, ColPopularity); err != nil {
			return nil, err
		}
		if rec.DurationMs, err = parseInt(row[index[ColDuration]], rowNum, ColDuration); err != nil {
			return nil, err
		}
		for f, col := range model.FeatureColumns {
			if rec.Features[f], err = parseFloat(row[index[col]], rowNum, col); err != nil {
				return nil, err
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseFloat rejects non-finite cells as well as non-numeric ones:
// strconv.ParseFloat happily accepts "NaN" and "Inf", and a single NaN
// would poison the fitted column statistics and every cosine score
// computed from them.
func parseFloat(cell string, row int, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &model.InvalidDataError{Row: row, Column: col, Value: cell}
	}
	return v, nil
}

// parseInt accepts integer cells written as floats ("66.0"), which
// pandas-exported datasets routinely contain.
func parseInt(cell string, row int, col string) (int, error) {
	s := strings.TrimSpace(cell)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := parseFloat(s, row, col)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
