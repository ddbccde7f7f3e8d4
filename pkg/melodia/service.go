package melodia

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sarthakvats/melodia/internal/catalog"
	"github.com/sarthakvats/melodia/internal/dataset"
	"github.com/sarthakvats/melodia/internal/filters"
	"github.com/sarthakvats/melodia/internal/model"
	"github.com/sarthakvats/melodia/internal/resolver"
	"github.com/sarthakvats/melodia/internal/similarity"
	"github.com/sarthakvats/melodia/pkg/logger"
	"github.com/sarthakvats/melodia/pkg/models"
)

// DefaultRecommendations is the number of results returned when the
// caller passes a negative count, meaning "no preference". A count of
// zero is honored as zero: sampling up to 0 rows yields none.
const DefaultRecommendations = 5

var (
	// ErrNoEnricher is returned by SongInfo when no enrichment client
	// was configured.
	ErrNoEnricher = errors.New("no enrichment client configured")

	// ErrNoStorage is returned by AddSong when the catalog is backed
	// by a flat file only.
	ErrNoStorage = errors.New("no storage configured; appending requires a database-backed catalog")
)

// snapshot bundles one immutable catalog with the resolver built over
// it. Requests read whichever snapshot is current; reloads build a
// new one and swap the pointer.
type snapshot struct {
	cat *catalog.Catalog
	res *resolver.Resolver
}

// recommenderService is the default implementation of the Service
// interface.
type recommenderService struct {
	mu       sync.RWMutex
	snap     *snapshot
	storage  Storage
	enricher Enricher
	log      Logger
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var stor Storage
	var err error
	switch {
	case cfg.Storage != nil:
		stor = cfg.Storage
	case cfg.DBPath != "":
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	s := &recommenderService{
		storage:  stor,
		enricher: cfg.Enricher,
		log:      cfg.Logger,
		config:   cfg,
	}

	records, err := s.loadRecords()
	if err != nil {
		s.Close()
		return nil, err
	}
	snap, err := s.buildSnapshot(records)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.snap = snap
	s.log.Infof("Catalog ready with %d songs", snap.cat.Len())
	return s, nil
}

// loadRecords pulls catalog rows from the configured source. With
// both a dataset file and storage configured, the file is imported
// into storage first (skipping existing rows) and storage remains the
// source of truth.
func (s *recommenderService) loadRecords() ([]model.SongRecord, error) {
	if s.config.DataPath != "" {
		records, err := dataset.Load(s.config.DataPath)
		if err != nil {
			return nil, err
		}
		s.log.Infof("Loaded %d songs from %s", len(records), s.config.DataPath)

		if s.storage == nil {
			return records, nil
		}
		stored, err := s.storage.ImportRecords(records)
		if err != nil {
			return nil, fmt.Errorf("importing dataset into storage: %w", err)
		}
		if stored > 0 {
			s.log.Infof("Imported %d new songs into storage", stored)
		}
		return s.storage.ListRecords()
	}

	if s.storage != nil {
		records, err := s.storage.ListRecords()
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errors.New("catalog database is empty; import a dataset first")
		}
		return records, nil
	}
	return nil, errors.New("no catalog source configured: set a dataset path or a database path")
}

func (s *recommenderService) buildSnapshot(records []model.SongRecord) (*snapshot, error) {
	cat, err := catalog.New(records)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return &snapshot{
		cat: cat,
		res: resolver.New(cat, s.config.FuzzyCutoff, s.config.FuzzyCandidates),
	}, nil
}

// snapshot returns the current catalog snapshot. The returned value
// stays valid even if a reload swaps in a newer one mid-request.
func (s *recommenderService) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// newRNG returns a request-scoped random source so concurrent
// requests never share generator state.
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func toSong(rec model.SongRecord) models.Song {
	return models.Song{
		Title:      rec.Title,
		Artist:     rec.Artist,
		Album:      rec.Album,
		Genre:      rec.Genre,
		Popularity: rec.Popularity,
		DurationMs: rec.DurationMs,
		Features: models.AudioFeatures{
			Energy:       rec.Features[model.FeatEnergy],
			Tempo:        rec.Features[model.FeatTempo],
			Danceability: rec.Features[model.FeatDanceability],
			Loudness:     rec.Features[model.FeatLoudness],
			Liveness:     rec.Features[model.FeatLiveness],
			Valence:      rec.Features[model.FeatValence],
			Speechiness:  rec.Features[model.FeatSpeechiness],
			Acousticness: rec.Features[model.FeatAcousticness],
		},
	}
}

func fromSong(song models.Song) model.SongRecord {
	return model.SongRecord{
		Title:      song.Title,
		Artist:     song.Artist,
		Album:      song.Album,
		Genre:      song.Genre,
		Popularity: song.Popularity,
		DurationMs: song.DurationMs,
		Features: model.FeatureVector{
			model.FeatEnergy:       song.Features.Energy,
			model.FeatTempo:        song.Features.Tempo,
			model.FeatDanceability: song.Features.Danceability,
			model.FeatLoudness:     song.Features.Loudness,
			model.FeatLiveness:     song.Features.Liveness,
			model.FeatValence:      song.Features.Valence,
			model.FeatSpeechiness:  song.Features.Speechiness,
			model.FeatAcousticness: song.Features.Acousticness,
		},
	}
}

func songsAt(cat *catalog.Catalog, indices []int) []models.Song {
	out := make([]models.Song, 0, len(indices))
	for _, i := range indices {
		out = append(out, toSong(cat.Records()[i]))
	}
	return out
}

// ResolveAndRecommend resolves a free-text query to a catalog row and
// ranks the most similar songs. The result is always one of two
// terminal shapes: found with recommendations, or not-found with
// fuzzy suggestions.
func (s *recommenderService) ResolveAndRecommend(query string, k, minPopularity int) (*models.RecommendationResult, error) {
	if k < 0 {
		k = DefaultRecommendations
	}
	if minPopularity < 0 {
		minPopularity = 0
	}
	snap := s.snapshot()

	res, err := snap.res.Resolve(query)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		s.log.Infof("No match for query %q (%d suggestions)", query, len(res.Suggestions))
		return &models.RecommendationResult{
			Found:       false,
			Message:     res.Message,
			Suggestions: res.Suggestions,
		}, nil
	}

	input, err := snap.cat.RowAt(res.Index)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("Resolved %q to %q by %s", query, input.Title, input.Artist)

	ranked, err := similarity.Recommend(snap.cat, res.Index, k, minPopularity)
	if err != nil {
		return nil, err
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recs = append(recs, models.Recommendation{
			Song:  toSong(snap.cat.Records()[r.Index]),
			Score: r.Score,
		})
	}

	inputSong := toSong(input)
	return &models.RecommendationResult{
		Found:           true,
		InputSong:       &inputSong,
		Recommendations: recs,
	}, nil
}

func (s *recommenderService) RecommendByMood(mood string, count int) ([]models.Song, error) {
	if count < 0 {
		count = DefaultRecommendations
	}
	snap := s.snapshot()

	indices, err := filters.ByMood(snap.cat, mood, count, newRNG())
	if err != nil {
		return nil, err
	}
	return songsAt(snap.cat, indices), nil
}

func (s *recommenderService) RecommendRandom(count, minPopularity int, genre string) ([]models.Song, error) {
	if count < 0 {
		count = DefaultRecommendations
	}
	snap := s.snapshot()
	return songsAt(snap.cat, filters.RandomSample(snap.cat, count, minPopularity, genre, newRNG())), nil
}

func (s *recommenderService) RecommendByGenre(genre string, count int) ([]models.Song, error) {
	if count < 0 {
		count = DefaultRecommendations
	}
	snap := s.snapshot()

	indices, err := filters.ByGenre(snap.cat, genre, count, newRNG())
	if err != nil {
		return nil, err
	}
	return songsAt(snap.cat, indices), nil
}

func (s *recommenderService) RecommendByRegionHeuristic(count, minPopularity int) ([]models.Song, error) {
	if count < 0 {
		count = DefaultRecommendations
	}
	snap := s.snapshot()
	return songsAt(snap.cat, filters.ByRegionHeuristic(snap.cat, count, minPopularity, newRNG())), nil
}

func (s *recommenderService) ListGenres() ([]models.GenreCount, error) {
	snap := s.snapshot()

	genres := snap.cat.Genres()
	out := make([]models.GenreCount, len(genres))
	for i, g := range genres {
		out[i] = models.GenreCount{Genre: g.Genre, Count: g.Count}
	}
	return out, nil
}

func (s *recommenderService) SearchSongs(query string) ([]models.Song, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &model.InvalidQueryError{Query: query}
	}
	snap := s.snapshot()
	return songsAt(snap.cat, snap.cat.Search(query)), nil
}

func (s *recommenderService) VibeClusters(k int) ([]models.MoodCluster, error) {
	snap := s.snapshot()

	vibes, err := filters.VibeClusters(snap.cat, k)
	if err != nil {
		return nil, err
	}

	out := make([]models.MoodCluster, 0, len(vibes))
	for _, v := range vibes {
		out = append(out, models.MoodCluster{
			Centroid: v.Centroid,
			Songs:    songsAt(snap.cat, v.Rows),
		})
	}
	return out, nil
}

// AddSong persists a new catalog row, then rebuilds the catalog and
// refits the scaler so the next request sees the appended song.
func (s *recommenderService) AddSong(ctx context.Context, song models.Song) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if strings.TrimSpace(song.Title) == "" || strings.TrimSpace(song.Artist) == "" {
		return errors.New("song title and artist are required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := s.storage.RegisterSong(fromSong(song))
	if err != nil {
		return fmt.Errorf("storing song: %w", err)
	}
	s.log.Infof("Stored song %q by %s (id=%s)", song.Title, song.Artist, id)

	return s.Reload()
}

// Reload rebuilds the catalog, resolver and scaler from the source
// and atomically swaps the snapshot. In-flight requests keep reading
// the snapshot they started with.
func (s *recommenderService) Reload() error {
	records, err := s.loadRecords()
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}
	snap, err := s.buildSnapshot(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.log.Infof("Catalog reloaded with %d songs", snap.cat.Len())
	return nil
}

// SongInfo fetches display-only metadata for a (title, artist) pair
// from the enrichment collaborator. Scoring never depends on it.
func (s *recommenderService) SongInfo(ctx context.Context, title, artist string) (*models.TrackInfo, error) {
	if s.enricher == nil {
		return nil, ErrNoEnricher
	}
	return s.enricher.TrackInfo(ctx, title, artist)
}

func (s *recommenderService) SongCount() int {
	return s.snapshot().cat.Len()
}

func (s *recommenderService) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
