package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/sarthakvats/melodia/pkg/melodia"
	"github.com/sarthakvats/melodia/pkg/melodia/enrich"
)

var (
	port           int
	dataPath       string
	dbPath         string
	allowedOrigins string
	fuzzyCutoff    float64
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dataPath, "data", getEnvOrDefault("MELODIA_DATA_PATH", ""), "Path to CSV song dataset")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("MELODIA_DB_PATH", "melodia.sqlite3"), "Path to SQLite catalog database")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
	flag.Float64Var(&fuzzyCutoff, "fuzzy-cutoff", 0.6, "Minimum similarity ratio for fuzzy title matching")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	// Parse allowed origins
	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	opts := []melodia.Option{
		melodia.WithDataPath(dataPath),
		melodia.WithDBPath(dbPath),
		melodia.WithFuzzyCutoff(float32(fuzzyCutoff)),
	}

	// Spotify enrichment is optional and driven purely by env credentials
	enrichment := false
	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		enricher, err := enrich.NewSpotifyEnricher(context.Background(), clientID, clientSecret)
		if err != nil {
			log.Fatalf("Failed to create Spotify enricher: %v", err)
		}
		opts = append(opts, melodia.WithEnricher(enricher))
		enrichment = true
	}

	service, err := melodia.NewService(opts...)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DataPath:       dataPath,
		DBPath:         dbPath,
		AllowedOrigins: origins,
		Enrichment:     enrichment,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
