package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sarthakvats/melodia/internal/model"
	"github.com/sarthakvats/melodia/pkg/logger"
	"github.com/sarthakvats/melodia/pkg/melodia"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service melodia.Service
	config  *ServerConfig
	log     melodia.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DataPath       string
	DBPath         string
	AllowedOrigins []string
	Enrichment     bool
}

// NewServer creates a new server instance
func NewServer(service melodia.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// respondServiceError maps domain errors to HTTP status codes
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var (
		queryErr *model.InvalidQueryError
		moodErr  *model.InvalidMoodError
		genreErr *model.InvalidGenreError
	)
	switch {
	case errors.As(err, &queryErr), errors.As(err, &moodErr), errors.As(err, &genreErr):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, melodia.ErrNoEnricher):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, melodia.ErrNoStorage):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// intParam reads an integer query parameter, falling back to a default
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// countParams reads the result-count parameter under the given name
// together with min_popularity
func (s *Server) countParams(w http.ResponseWriter, r *http.Request, name string) (count, minPopularity int, ok bool) {
	count, err := intParam(r, name, melodia.DefaultRecommendations)
	if err != nil || count < 0 || count > MaxRecommendations {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be an integer between 0 and 100", name))
		return 0, 0, false
	}
	minPopularity, err = intParam(r, "min_popularity", 0)
	if err != nil || minPopularity < 0 || minPopularity > 101 {
		s.respondError(w, http.StatusBadRequest, "min_popularity must be an integer between 0 and 101")
		return 0, 0, false
	}
	return count, minPopularity, true
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Melodia API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":          "GET /health",
			"metrics":         "GET /api/health/metrics",
			"recommend":       "GET /api/recommend?q={song}&k={n}&min_popularity={p}",
			"recommendMood":   "GET /api/recommend/mood?mood={happy|sad|energetic|calm}",
			"recommendRandom": "GET /api/recommend/random?genre={g}&min_popularity={p}",
			"recommendGenre":  "GET /api/recommend/genre?genre={g}",
			"recommendRegion": "GET /api/recommend/region",
			"genres":          "GET /api/genres",
			"search":          "GET /api/search?q={text}",
			"clusters":        "GET /api/clusters?k={n}",
			"addSong":         "POST /api/songs",
			"songInfo":        "GET /api/songs/info?title={t}&artist={a}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.config.DBPath,
		DatasetPath:  s.config.DataPath,
		SongCount:    s.service.SongCount(),
		Enrichment:   s.config.Enrichment,
	})
}

// handleRecommend handles GET /api/recommend
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	k, minPopularity, ok := s.countParams(w, r, "k")
	if !ok {
		return
	}

	result, err := s.service.ResolveAndRecommend(query, k, minPopularity)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// handleRecommendMood handles GET /api/recommend/mood
func (s *Server) handleRecommendMood(w http.ResponseWriter, r *http.Request) {
	count, _, ok := s.countParams(w, r, "count")
	if !ok {
		return
	}

	songs, err := s.service.RecommendByMood(r.URL.Query().Get("mood"), count)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SongsResponse{Songs: songs, Count: len(songs)})
}

// handleRecommendRandom handles GET /api/recommend/random
func (s *Server) handleRecommendRandom(w http.ResponseWriter, r *http.Request) {
	count, minPopularity, ok := s.countParams(w, r, "count")
	if !ok {
		return
	}

	songs, err := s.service.RecommendRandom(count, minPopularity, r.URL.Query().Get("genre"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SongsResponse{Songs: songs, Count: len(songs)})
}

// handleRecommendGenre handles GET /api/recommend/genre
func (s *Server) handleRecommendGenre(w http.ResponseWriter, r *http.Request) {
	count, _, ok := s.countParams(w, r, "count")
	if !ok {
		return
	}

	songs, err := s.service.RecommendByGenre(r.URL.Query().Get("genre"), count)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SongsResponse{Songs: songs, Count: len(songs)})
}

// handleRecommendRegion handles GET /api/recommend/region
func (s *Server) handleRecommendRegion(w http.ResponseWriter, r *http.Request) {
	count, minPopularity, ok := s.countParams(w, r, "count")
	if !ok {
		return
	}

	songs, err := s.service.RecommendByRegionHeuristic(count, minPopularity)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SongsResponse{Songs: songs, Count: len(songs)})
}

// handleGenres handles GET /api/genres
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.service.ListGenres()
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, GenresResponse{Genres: genres, Count: len(genres)})
}

// handleSearch handles GET /api/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	songs, err := s.service.SearchSongs(r.URL.Query().Get("q"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SongsResponse{Songs: songs, Count: len(songs)})
}

// handleClusters handles GET /api/clusters
func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k", 0)
	if err != nil || k < 0 || k > MaxClusterCount {
		s.respondError(w, http.StatusBadRequest, "k must be an integer between 0 and 20")
		return
	}

	clusters, err := s.service.VibeClusters(k)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ClustersResponse{Clusters: clusters, Count: len(clusters)})
}

// handleAddSong handles POST /api/songs
func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var req AddSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Errorf("Failed to decode request: %v", err)
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.AddSong(r.Context(), req.ToSong()); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.log.Infof("Added song: %s by %s", req.Title, req.Artist)
	s.respondJSON(w, http.StatusCreated, AddSongResponse{
		Message: "Song added successfully",
		Title:   req.Title,
		Artist:  req.Artist,
	})
}

// handleSongInfo handles GET /api/songs/info
func (s *Server) handleSongInfo(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	artist := r.URL.Query().Get("artist")
	if title == "" || artist == "" {
		s.respondError(w, http.StatusBadRequest, "title and artist are required")
		return
	}

	info, err := s.service.SongInfo(r.Context(), title, artist)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, info)
}

// handleSongs routes requests to /api/songs
func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddSong(w, r)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// requireGet wraps a GET-only handler
func (s *Server) requireGet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		next(w, r)
	}
}
