package melodia

import (
	"context"

	"github.com/sarthakvats/melodia/internal/model"
	"github.com/sarthakvats/melodia/pkg/models"
)

// Service is the recommendation engine as seen by hosts (HTTP server,
// CLI). All read operations work over an immutable catalog snapshot;
// AddSong and Reload swap in a fresh snapshot atomically. A negative
// count or k falls back to DefaultRecommendations; zero yields an
// empty result.
type Service interface {
	ResolveAndRecommend(query string, k, minPopularity int) (*models.RecommendationResult, error)
	RecommendByMood(mood string, count int) ([]models.Song, error)
	RecommendRandom(count, minPopularity int, genre string) ([]models.Song, error)
	RecommendByGenre(genre string, count int) ([]models.Song, error)
	RecommendByRegionHeuristic(count, minPopularity int) ([]models.Song, error)
	ListGenres() ([]models.GenreCount, error)
	SearchSongs(query string) ([]models.Song, error)
	VibeClusters(k int) ([]models.MoodCluster, error)
	AddSong(ctx context.Context, song models.Song) error
	SongInfo(ctx context.Context, title, artist string) (*models.TrackInfo, error)
	Reload() error
	SongCount() int
	Close() error
}

// Storage persists catalog rows between runs and backs the append
// workflow.
type Storage interface {
	RegisterSong(rec model.SongRecord) (string, error)
	ImportRecords(records []model.SongRecord) (int, error)
	ListRecords() ([]model.SongRecord, error)
	CountSongs() (int64, error)
	Close() error
}

// Enricher supplies display-only track metadata from an external
// music catalog for a resolved (title, artist) pair.
type Enricher interface {
	TrackInfo(ctx context.Context, title, artist string) (*models.TrackInfo, error)
}

// Logger is the minimal logging surface components depend on.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
