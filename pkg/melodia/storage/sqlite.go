// Package storage persists the song catalog in SQLite. The
// recommendation engine itself only ever sees in-memory records; this
// layer exists for the offline append/import workflow and for hosts
// that prefer a database over a flat CSV file.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sarthakvats/melodia/internal/model"
	"github.com/sarthakvats/melodia/pkg/utils"
)

const DefaultDBFile = "melodia.sqlite3"
const errDBClientNil = "db client is nil"

// DBClient wraps the gorm handle for the catalog database.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Song is the persisted catalog row. The auto-increment ID preserves
// insertion order, which defines row identity in the in-memory
// catalog; the UUID is the stable external handle.
type Song struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UUID         string `gorm:"type:varchar(36);uniqueIndex:idx_song_uuid"`
	Title        string `gorm:"uniqueIndex:idx_song_unique,priority:1;index:idx_song_meta,priority:1" json:"title"`
	Artist       string `gorm:"uniqueIndex:idx_song_unique,priority:2;index:idx_song_meta,priority:2" json:"artist"`
	Album        string `json:"album"`
	Genre        string `gorm:"index:idx_genre" json:"genre"`
	Popularity   int    `json:"popularity"`
	DurationMs   int    `json:"duration_ms"`
	Energy       float64
	Tempo        float64
	Danceability float64
	Loudness     float64
	Liveness     float64
	Valence      float64
	Speechiness  float64
	Acousticness float64
	CreatedAt    time.Time
}

func (s *Song) toRecord() model.SongRecord {
	return model.SongRecord{
		Title:      s.Title,
		Artist:     s.Artist,
		Album:      s.Album,
		Genre:      s.Genre,
		Popularity: s.Popularity,
		DurationMs: s.DurationMs,
		Features: model.FeatureVector{
			model.FeatEnergy:       s.Energy,
			model.FeatTempo:        s.Tempo,
			model.FeatDanceability: s.Danceability,
			model.FeatLoudness:     s.Loudness,
			model.FeatLiveness:     s.Liveness,
			model.FeatValence:      s.Valence,
			model.FeatSpeechiness:  s.Speechiness,
			model.FeatAcousticness: s.Acousticness,
		},
	}
}

func fromRecord(rec model.SongRecord) Song {
	return Song{
		UUID:         utils.GenerateUUID(),
		Title:        rec.Title,
		Artist:       rec.Artist,
		Album:        rec.Album,
		Genre:        rec.Genre,
		Popularity:   rec.Popularity,
		DurationMs:   rec.DurationMs,
		Energy:       rec.Features[model.FeatEnergy],
		Tempo:        rec.Features[model.FeatTempo],
		Danceability: rec.Features[model.FeatDanceability],
		Loudness:     rec.Features[model.FeatLoudness],
		Liveness:     rec.Features[model.FeatLiveness],
		Valence:      rec.Features[model.FeatValence],
		Speechiness:  rec.Features[model.FeatSpeechiness],
		Acousticness: rec.Features[model.FeatAcousticness],
	}
}

// NewDBClient opens the database named by MELODIA_DB_PATH, falling
// back to DefaultDBFile.
func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("MELODIA_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Song{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RegisterSong inserts rec, or returns the existing row's ID when a
// song with the same (title, artist) is already stored.
func (c *DBClient) RegisterSong(rec model.SongRecord) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	var existing Song
	err := c.DB.Where("title = ? AND artist = ?", rec.Title, rec.Artist).First(&existing).Error
	if err == nil {
		return existing.UUID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("querying existing song: %w", err)
	}

	song := fromRecord(rec)
	if err := c.DB.Create(&song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "constraint failed") {
			if fetchErr := c.DB.Where("title = ? AND artist = ?", rec.Title, rec.Artist).First(&song).Error; fetchErr != nil {
				return "", fmt.Errorf("fetching song after constraint violation: %w", fetchErr)
			}
			return song.UUID, nil
		}
		return "", fmt.Errorf("creating song: %w", err)
	}
	return song.UUID, nil
}

// songKey identifies a song the way idx_song_unique does.
type songKey struct {
	title  string
	artist string
}

// ImportRecords bulk-inserts records, skipping (title, artist) pairs
// already present. Duplicate pairs within the input itself are also
// skipped; playlist-derived datasets list the same track once per
// playlist. Returns the number of newly stored rows.
func (c *DBClient) ImportRecords(records []model.SongRecord) (int, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}

	stored := 0
	batch := make([]Song, 0, 500)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.DB.CreateInBatches(batch, 500).Error; err != nil {
			return fmt.Errorf("batch insert songs: %w", err)
		}
		stored += len(batch)
		batch = batch[:0]
		return nil
	}

	seen := make(map[songKey]struct{}, len(records))
	for _, rec := range records {
		key := songKey{title: rec.Title, artist: rec.Artist}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var count int64
		if err := c.DB.Model(&Song{}).
			Where("title = ? AND artist = ?", rec.Title, rec.Artist).
			Count(&count).Error; err != nil {
			return stored, fmt.Errorf("checking existing song: %w", err)
		}
		if count > 0 {
			continue
		}
		batch = append(batch, fromRecord(rec))
		if len(batch) >= 500 {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}
	if err := flush(); err != nil {
		return stored, err
	}
	return stored, nil
}

// ListRecords returns every stored song in insertion order.
func (c *DBClient) ListRecords() ([]model.SongRecord, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var rows []Song
	if err := c.DB.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}

	out := make([]model.SongRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].toRecord()
	}
	return out, nil
}

// CountSongs returns the number of stored songs.
func (c *DBClient) CountSongs() (int64, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}
	var count int64
	if err := c.DB.Model(&Song{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting songs: %w", err)
	}
	return count, nil
}

// DeleteSongByID removes one persisted song.
func (c *DBClient) DeleteSongByID(songID string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Where("uuid = ?", songID).Delete(&Song{}).Error
}
