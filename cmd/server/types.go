package main

import (
	"fmt"

	"github.com/sarthakvats/melodia/pkg/models"
)

// Recommendation count limits for request validation
const (
	// MaxRecommendations caps a single request's result size
	MaxRecommendations = 100

	// MaxClusterCount caps the number of k-means vibe clusters
	MaxClusterCount = 20
)

// AddSongRequest is the request body for POST /api/songs
type AddSongRequest struct {
	Title      string `json:"title" binding:"required"`
	Artist     string `json:"artist" binding:"required"`
	Album      string `json:"album,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Popularity int    `json:"popularity"`
	DurationMs int    `json:"duration_ms"`

	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"`
	Danceability float64 `json:"danceability"`
	Loudness     float64 `json:"loudness"`
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
	Speechiness  float64 `json:"speechiness"`
	Acousticness float64 `json:"acousticness"`
}

// Validate checks if the request is valid
func (r *AddSongRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Artist == "" {
		return fmt.Errorf("artist is required")
	}
	if r.Popularity < 0 || r.Popularity > 100 {
		return fmt.Errorf("popularity must be between 0 and 100, got %d", r.Popularity)
	}
	if r.DurationMs < 0 {
		return fmt.Errorf("duration_ms must be non-negative, got %d", r.DurationMs)
	}
	return nil
}

// ToSong converts the request into a domain song
func (r *AddSongRequest) ToSong() models.Song {
	return models.Song{
		Title:      r.Title,
		Artist:     r.Artist,
		Album:      r.Album,
		Genre:      r.Genre,
		Popularity: r.Popularity,
		DurationMs: r.DurationMs,
		Features: models.AudioFeatures{
			Energy:       r.Energy,
			Tempo:        r.Tempo,
			Danceability: r.Danceability,
			Loudness:     r.Loudness,
			Liveness:     r.Liveness,
			Valence:      r.Valence,
			Speechiness:  r.Speechiness,
			Acousticness: r.Acousticness,
		},
	}
}

// AddSongResponse is the response for successful song addition
type AddSongResponse struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
}

// SongsResponse wraps a list of songs
type SongsResponse struct {
	Songs []models.Song `json:"songs"`
	Count int           `json:"count"`
}

// GenresResponse is the response for GET /api/genres
type GenresResponse struct {
	Genres []models.GenreCount `json:"genres"`
	Count  int                 `json:"count"`
}

// ClustersResponse is the response for GET /api/clusters
type ClustersResponse struct {
	Clusters []models.MoodCluster `json:"clusters"`
	Count    int                  `json:"count"`
}

// MetricsResponse provides server health and catalog metrics
type MetricsResponse struct {
	Status       string `json:"status"`
	DatabasePath string `json:"database_path,omitempty"`
	DatasetPath  string `json:"dataset_path,omitempty"`
	SongCount    int    `json:"song_count"`
	Enrichment   bool   `json:"enrichment_enabled"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
