package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/sarthakvats/melodia/internal/model"
)

const validHeader = "track_name,track_artist,track_album_name,track_popularity,playlist_genre,duration_ms," +
	"energy,tempo,danceability,loudness,liveness,valence,speechiness,acousticness"

func TestParseValidDataset(t *testing.T) {
	csvData := validHeader + "\n" +
		"Shape of You,Ed Sheeran,Divide,90,pop,233713,0.65,96.0,0.825,-3.18,0.093,0.931,0.0802,0.581\n" +
		"Blinding Lights,The Weeknd,After Hours,95,pop,200040,0.73,171.0,0.514,-5.93,0.0897,0.334,0.0598,0.00146\n"

	records, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	r := records[0]
	if r.Title != "Shape of You" || r.Artist != "Ed Sheeran" || r.Album != "Divide" {
		t.Errorf("unexpected metadata: %+v", r)
	}
	if r.Popularity != 90 || r.DurationMs != 233713 || r.Genre != "pop" {
		t.Errorf("unexpected numeric metadata: %+v", r)
	}
	if r.Features[model.FeatEnergy] != 0.65 {
		t.Errorf("energy = %v, want 0.65", r.Features[model.FeatEnergy])
	}
	if r.Features[model.FeatAcousticness] != 0.581 {
		t.Errorf("acousticness = %v, want 0.581", r.Features[model.FeatAcousticness])
	}
}

func TestParseReportsAllMissingColumns(t *testing.T) {
	// Header lacking track_album_name, valence and acousticness.
	csvData := "track_name,track_artist,track_popularity,playlist_genre,duration_ms," +
		"energy,tempo,danceability,loudness,liveness,speechiness\n"

	_, err := Parse(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("Parse succeeded on incomplete schema")
	}

	var schemaErr *model.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error type = %T, want *model.SchemaError", err)
	}

	want := []string{"track_album_name", "valence", "acousticness"}
	if len(schemaErr.Missing) != len(want) {
		t.Fatalf("missing columns = %v, want %v", schemaErr.Missing, want)
	}
	for _, col := range want {
		found := false
		for _, got := range schemaErr.Missing {
			if got == col {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing columns %v does not name %q", schemaErr.Missing, col)
		}
	}
}

func TestParseRejectsNonNumericFeature(t *testing.T) {
	csvData := validHeader + "\n" +
		"Song,Artist,Album,50,pop,180000,loud,96.0,0.8,-3.1,0.09,0.9,0.08,0.5\n"

	_, err := Parse(strings.NewReader(csvData))
	var dataErr *model.InvalidDataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("error type = %T, want *model.InvalidDataError", err)
	}
	if dataErr.Column != "energy" || dataErr.Row != 1 {
		t.Errorf("error = %+v, want row 1 column energy", dataErr)
	}
}

func TestParseRejectsNonFiniteFeature(t *testing.T) {
	// ParseFloat accepts these spellings, the catalog must not.
	for _, bad := range []string{"NaN", "nan", "Inf", "-Inf", "+Inf"} {
		csvData := validHeader + "\n" +
			"Song,Artist,Album,50,pop,180000," + bad + ",96.0,0.8,-3.1,0.09,0.9,0.08,0.5\n"

		_, err := Parse(strings.NewReader(csvData))
		var dataErr *model.InvalidDataError
		if !errors.As(err, &dataErr) {
			t.Fatalf("Parse(%s) error = %v, want *model.InvalidDataError", bad, err)
		}
		if dataErr.Column != "energy" || dataErr.Row != 1 {
			t.Errorf("Parse(%s) error = %+v, want row 1 column energy", bad, dataErr)
		}
	}
}

func TestParseAcceptsFloatIntegerCells(t *testing.T) {
	csvData := validHeader + "\n" +
		"Song,Artist,Album,66.0,rock,180000.0,0.5,120,0.5,-6,0.2,0.5,0.1,0.4\n"

	records, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if records[0].Popularity != 66 {
		t.Errorf("popularity = %d, want 66", records[0].Popularity)
	}
	if records[0].DurationMs != 180000 {
		t.Errorf("duration = %d, want 180000", records[0].DurationMs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.csv"); err == nil {
		t.Error("Load succeeded on missing file")
	}
}
