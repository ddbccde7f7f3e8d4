package storage

import (
	"path/filepath"
	"testing"

	"github.com/sarthakvats/melodia/internal/model"
)

func newTestClient(t *testing.T) *DBClient {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_melodia.sqlite3")
	client, err := NewDBClientWithPath(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test db client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func sampleRecord(title, artist string) model.SongRecord {
	return model.SongRecord{
		Title: title, Artist: artist, Album: "Album", Genre: "pop",
		Popularity: 50, DurationMs: 200000,
		Features: model.FeatureVector{0.5, 120, 0.5, -7, 0.2, 0.5, 0.05, 0.4},
	}
}

func TestRegisterSongIdempotent(t *testing.T) {
	c := newTestClient(t)

	id1, err := c.RegisterSong(sampleRecord("Halo", "Beyonce"))
	if err != nil {
		t.Fatalf("RegisterSong failed: %v", err)
	}
	id2, err := c.RegisterSong(sampleRecord("Halo", "Beyonce"))
	if err != nil {
		t.Fatalf("second RegisterSong failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("duplicate registration created a new row: %s != %s", id1, id2)
	}

	count, err := c.CountSongs()
	if err != nil {
		t.Fatalf("CountSongs failed: %v", err)
	}
	if count != 1 {
		t.Errorf("song count = %d, want 1", count)
	}
}

func TestDuplicateTitlesDifferentArtists(t *testing.T) {
	c := newTestClient(t)

	id1, err := c.RegisterSong(sampleRecord("Halo", "Beyonce"))
	if err != nil {
		t.Fatalf("RegisterSong failed: %v", err)
	}
	id2, err := c.RegisterSong(sampleRecord("Halo", "Tribute Band"))
	if err != nil {
		t.Fatalf("RegisterSong failed: %v", err)
	}
	if id1 == id2 {
		t.Error("same title by different artists collapsed into one row")
	}
}

func TestImportAndListPreservesOrder(t *testing.T) {
	c := newTestClient(t)

	records := []model.SongRecord{
		sampleRecord("First", "A"),
		sampleRecord("Second", "B"),
		sampleRecord("Third", "C"),
	}
	stored, err := c.ImportRecords(records)
	if err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}
	if stored != 3 {
		t.Errorf("stored = %d, want 3", stored)
	}

	got, err := c.ListRecords()
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("listed %d records, want 3", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Title != want {
			t.Errorf("record %d title = %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestImportSkipsExisting(t *testing.T) {
	c := newTestClient(t)

	if _, err := c.ImportRecords([]model.SongRecord{sampleRecord("Halo", "Beyonce")}); err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}
	stored, err := c.ImportRecords([]model.SongRecord{
		sampleRecord("Halo", "Beyonce"),
		sampleRecord("Hello", "Adele"),
	})
	if err != nil {
		t.Fatalf("second ImportRecords failed: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored = %d, want 1 (existing song skipped)", stored)
	}
}

func TestImportDeduplicatesWithinInput(t *testing.T) {
	c := newTestClient(t)

	// The same (title, artist) pair twice in one import, as a
	// playlist-derived dataset produces when a track sits on several
	// playlists. The first occurrence wins; the copy must not abort
	// the batch against the unique index.
	records := []model.SongRecord{
		sampleRecord("Halo", "Beyonce"),
		sampleRecord("Halo", "Beyonce"),
		sampleRecord("Hello", "Adele"),
	}
	stored, err := c.ImportRecords(records)
	if err != nil {
		t.Fatalf("ImportRecords failed on duplicate input rows: %v", err)
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2", stored)
	}

	count, err := c.CountSongs()
	if err != nil {
		t.Fatalf("CountSongs failed: %v", err)
	}
	if count != 2 {
		t.Errorf("song count = %d, want 2", count)
	}
}

func TestListRecordsRoundTripsFeatures(t *testing.T) {
	c := newTestClient(t)

	rec := sampleRecord("Shape of You", "Ed Sheeran")
	rec.Features = model.FeatureVector{0.65, 96, 0.825, -3.18, 0.093, 0.931, 0.0802, 0.581}
	if _, err := c.RegisterSong(rec); err != nil {
		t.Fatalf("RegisterSong failed: %v", err)
	}

	got, err := c.ListRecords()
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("listed %d records, want 1", len(got))
	}
	if got[0].Features != rec.Features {
		t.Errorf("features = %v, want %v", got[0].Features, rec.Features)
	}
}

func TestDeleteSongByID(t *testing.T) {
	c := newTestClient(t)

	id, err := c.RegisterSong(sampleRecord("Halo", "Beyonce"))
	if err != nil {
		t.Fatalf("RegisterSong failed: %v", err)
	}
	if err := c.DeleteSongByID(id); err != nil {
		t.Fatalf("DeleteSongByID failed: %v", err)
	}

	count, err := c.CountSongs()
	if err != nil {
		t.Fatalf("CountSongs failed: %v", err)
	}
	if count != 0 {
		t.Errorf("song count after delete = %d, want 0", count)
	}
}

func TestNilClient(t *testing.T) {
	var c *DBClient
	if _, err := c.RegisterSong(sampleRecord("X", "Y")); err == nil {
		t.Error("nil client RegisterSong succeeded")
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client Close errored: %v", err)
	}
}
