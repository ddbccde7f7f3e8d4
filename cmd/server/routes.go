package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sarthakvats/melodia/pkg/logger"
)

// setupRoutes registers all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Root endpoint
	mux.HandleFunc("/", s.handleRoot)

	// Health endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health/metrics", s.handleMetrics)

	// Recommendation endpoints
	mux.HandleFunc("/api/recommend", s.requireGet(s.handleRecommend))
	mux.HandleFunc("/api/recommend/mood", s.requireGet(s.handleRecommendMood))
	mux.HandleFunc("/api/recommend/random", s.requireGet(s.handleRecommendRandom))
	mux.HandleFunc("/api/recommend/genre", s.requireGet(s.handleRecommendGenre))
	mux.HandleFunc("/api/recommend/region", s.requireGet(s.handleRecommendRegion))

	// Catalog endpoints
	mux.HandleFunc("/api/genres", s.requireGet(s.handleGenres))
	mux.HandleFunc("/api/search", s.requireGet(s.handleSearch))
	mux.HandleFunc("/api/clusters", s.requireGet(s.handleClusters))
	mux.HandleFunc("/api/songs", s.handleSongs)
	mux.HandleFunc("/api/songs/info", s.requireGet(s.handleSongInfo))

	// Wrap with CORS middleware
	return corsMiddleware(s.config.AllowedOrigins)(mux)
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if origin is allowed
			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				// Allow all origins
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			} else {
				// Check if origin is in allowed list
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Handle preflight requests
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		log := logger.GetLogger()
		log.Infof("%s %s from %s", r.Method, r.URL.Path, getClientIP(r))

		next.ServeHTTP(wrapped, r)

		log.Infof("%s %s -> %d", r.Method, r.URL.Path, wrapped.statusCode)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Start starts the HTTP server
func (s *Server) Start() error {
	handler := loggingMiddleware(s.setupRoutes())

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.log.Infof("🎵 Melodia server starting on %s", addr)
	s.log.Infof("   Catalog: %d songs", s.service.SongCount())
	if s.config.DBPath != "" {
		s.log.Infof("   Database: %s", s.config.DBPath)
	}
	s.log.Infof("   CORS Origins: %v", s.config.AllowedOrigins)
	s.log.Infof("\nEndpoints:")
	s.log.Infof("   GET  /health                - Health check")
	s.log.Infof("   GET  /api/health/metrics    - Server metrics")
	s.log.Infof("   GET  /api/recommend         - Similar songs for a query title")
	s.log.Infof("   GET  /api/recommend/mood    - Songs matching a mood")
	s.log.Infof("   GET  /api/recommend/random  - Random songs with filters")
	s.log.Infof("   GET  /api/recommend/genre   - Songs from a genre")
	s.log.Infof("   GET  /api/recommend/region  - Regional catalog picks")
	s.log.Infof("   GET  /api/genres            - Genre distribution")
	s.log.Infof("   GET  /api/search            - Substring catalog search")
	s.log.Infof("   GET  /api/clusters          - K-means vibe clusters")
	s.log.Infof("   POST /api/songs             - Append a song to the catalog")
	s.log.Infof("   GET  /api/songs/info        - Track metadata lookup")

	return http.ListenAndServe(addr, handler)
}
