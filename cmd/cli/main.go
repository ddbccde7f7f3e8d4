package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sarthakvats/melodia/pkg/logger"
	"github.com/sarthakvats/melodia/pkg/melodia"
	"github.com/sarthakvats/melodia/pkg/melodia/enrich"
	"github.com/sarthakvats/melodia/pkg/models"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var (
	dataPath = getEnvOrDefault("MELODIA_DATA_PATH", "")
	dbPath   = getEnvOrDefault("MELODIA_DB_PATH", "melodia.sqlite3")
)

// createService creates a new Melodia service with configured options
func createService() (melodia.Service, error) {
	return melodia.NewService(
		melodia.WithDataPath(dataPath),
		melodia.WithDBPath(dbPath),
	)
}

func main() {
	log := logger.GetLogger()

	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("Executing command: %s", command)

	switch command {
	case "recommend":
		handleRecommend()
	case "mood":
		handleMood()
	case "random":
		handleRandom()
	case "genre":
		handleGenre()
	case "region":
		handleRegion()
	case "genres":
		handleGenres()
	case "search":
		handleSearch()
	case "clusters":
		handleClusters()
	case "import":
		handleImport()
	case "add":
		handleAdd()
	case "list":
		handleList()
	case "info":
		handleInfo()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
 __  __      _           _ _
|  \/  | ___| | ___   __| (_) __ _
| |\/| |/ _ \ |/ _ \ / _` + "`" + ` | |/ _` + "`" + ` |
| |  | |  __/ | (_) | (_| | | (_| |
|_|  |_|\___|_|\___/ \__,_|_|\__,_|

        Music Recommendation CLI
`
	fmt.Println(banner)
}

// mustCreateService builds the service or exits with a message
func mustCreateService() melodia.Service {
	log := logger.GetLogger()

	fmt.Println("🔧 Loading catalog...")
	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	return svc
}

func printSongs(songs []models.Song) {
	if len(songs) == 0 {
		fmt.Println("\n📭 No songs matched")
		return
	}

	fmt.Printf("\n🎵 %d song(s):\n\n", len(songs))
	for i, song := range songs {
		fmt.Printf("%d. \"%s\" by %s\n", i+1, song.Title, song.Artist)
		fmt.Printf("   Album: %s | Genre: %s | Popularity: %d\n", song.Album, song.Genre, song.Popularity)
		if song.DurationMs > 0 {
			duration := song.DurationMs / 1000
			fmt.Printf("   Duration: %d:%02d\n", duration/60, duration%60)
		}
		fmt.Println()
	}
}

func handleRecommend() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("recommend", flag.ExitOnError)
	count := cmd.Int("count", melodia.DefaultRecommendations, "Number of recommendations")
	minPopularity := cmd.Int("min-popularity", 0, "Minimum popularity score (0-100)")
	cmd.Parse(os.Args[2:])

	query := strings.Join(cmd.Args(), " ")
	if strings.TrimSpace(query) == "" {
		fmt.Println("Usage: melodia recommend [--count N] [--min-popularity P] <song title>")
		os.Exit(1)
	}

	svc := mustCreateService()
	defer svc.Close()

	fmt.Printf("🔍 Searching for songs similar to %q...\n", query)
	result, err := svc.ResolveAndRecommend(query, *count, *minPopularity)
	if err != nil {
		fmt.Printf("❌ Recommendation failed: %v\n", err)
		log.Errorf("ResolveAndRecommend failed: %v", err)
		os.Exit(1)
	}

	if !result.Found {
		fmt.Printf("\n❌ %s\n", result.Message)
		if len(result.Suggestions) > 0 {
			fmt.Println("\n💡 Did you mean:")
			for _, s := range result.Suggestions {
				fmt.Printf("   - %s\n", s)
			}
		}
		return
	}

	fmt.Printf("\n✅ Based on \"%s\" by %s:\n\n", result.InputSong.Title, result.InputSong.Artist)
	for i, rec := range result.Recommendations {
		fmt.Printf("%d. \"%s\" by %s\n", i+1, rec.Title, rec.Artist)
		fmt.Printf("   Similarity: %.3f | Genre: %s | Popularity: %d\n", rec.Score, rec.Genre, rec.Popularity)
		fmt.Println()
	}
}

func handleMood() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("mood", flag.ExitOnError)
	count := cmd.Int("count", melodia.DefaultRecommendations, "Number of recommendations")
	cmd.Parse(os.Args[2:])

	mood := strings.Join(cmd.Args(), " ")
	if mood == "" {
		fmt.Println("Usage: melodia mood [--count N] <happy|sad|energetic|calm>")
		os.Exit(1)
	}

	svc := mustCreateService()
	defer svc.Close()

	songs, err := svc.RecommendByMood(mood, *count)
	if err != nil {
		fmt.Printf("❌ Mood recommendation failed: %v\n", err)
		log.Errorf("RecommendByMood failed: %v", err)
		os.Exit(1)
	}
	printSongs(songs)
}

func handleRandom() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("random", flag.ExitOnError)
	count := cmd.Int("count", melodia.DefaultRecommendations, "Number of recommendations")
	minPopularity := cmd.Int("min-popularity", 0, "Minimum popularity score (0-100)")
	genre := cmd.String("genre", "", "Restrict to an exact genre")
	cmd.Parse(os.Args[2:])

	svc := mustCreateService()
	defer svc.Close()

	songs, err := svc.RecommendRandom(*count, *minPopularity, *genre)
	if err != nil {
		fmt.Printf("❌ Random recommendation failed: %v\n", err)
		log.Errorf("RecommendRandom failed: %v", err)
		os.Exit(1)
	}
	printSongs(songs)
}

func handleGenre() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("genre", flag.ExitOnError)
	count := cmd.Int("count", melodia.DefaultRecommendations, "Number of recommendations")
	cmd.Parse(os.Args[2:])

	genre := strings.Join(cmd.Args(), " ")
	if genre == "" {
		fmt.Println("Usage: melodia genre [--count N] <genre>")
		os.Exit(1)
	}

	svc := mustCreateService()
	defer svc.Close()

	songs, err := svc.RecommendByGenre(genre, *count)
	if err != nil {
		fmt.Printf("❌ Genre recommendation failed: %v\n", err)
		log.Errorf("RecommendByGenre failed: %v", err)
		os.Exit(1)
	}
	printSongs(songs)
}

func handleRegion() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("region", flag.ExitOnError)
	count := cmd.Int("count", melodia.DefaultRecommendations, "Number of recommendations")
	minPopularity := cmd.Int("min-popularity", 0, "Minimum popularity score (0-100)")
	cmd.Parse(os.Args[2:])

	svc := mustCreateService()
	defer svc.Close()

	songs, err := svc.RecommendByRegionHeuristic(*count, *minPopularity)
	if err != nil {
		fmt.Printf("❌ Region recommendation failed: %v\n", err)
		log.Errorf("RecommendByRegionHeuristic failed: %v", err)
		os.Exit(1)
	}
	printSongs(songs)
}

func handleGenres() {
	log := logger.GetLogger()

	svc := mustCreateService()
	defer svc.Close()

	genres, err := svc.ListGenres()
	if err != nil {
		fmt.Printf("❌ Failed to list genres: %v\n", err)
		log.Errorf("ListGenres failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n📚 %d genre(s) in the catalog:\n\n", len(genres))
	for _, g := range genres {
		fmt.Printf("   %-20s %d songs\n", g.Genre, g.Count)
	}
}

func handleSearch() {
	log := logger.GetLogger()

	query := strings.Join(os.Args[2:], " ")
	if strings.TrimSpace(query) == "" {
		fmt.Println("Usage: melodia search <text>")
		os.Exit(1)
	}

	svc := mustCreateService()
	defer svc.Close()

	songs, err := svc.SearchSongs(query)
	if err != nil {
		fmt.Printf("❌ Search failed: %v\n", err)
		log.Errorf("SearchSongs failed: %v", err)
		os.Exit(1)
	}
	printSongs(songs)
}

func handleClusters() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("clusters", flag.ExitOnError)
	k := cmd.Int("k", 0, "Number of clusters (0 uses the default)")
	cmd.Parse(os.Args[2:])

	svc := mustCreateService()
	defer svc.Close()

	clusters, err := svc.VibeClusters(*k)
	if err != nil {
		fmt.Printf("❌ Clustering failed: %v\n", err)
		log.Errorf("VibeClusters failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n🎛  %d vibe cluster(s):\n", len(clusters))
	for i, c := range clusters {
		fmt.Printf("\nCluster %d (%d songs)\n", i+1, len(c.Songs))
		fmt.Printf("   Centroid: %v\n", c.Centroid)
		maxDisplay := 5
		if len(c.Songs) < maxDisplay {
			maxDisplay = len(c.Songs)
		}
		for _, song := range c.Songs[:maxDisplay] {
			fmt.Printf("   - \"%s\" by %s\n", song.Title, song.Artist)
		}
		if len(c.Songs) > maxDisplay {
			fmt.Printf("   ... and %d more\n", len(c.Songs)-maxDisplay)
		}
	}
}

func handleImport() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("import", flag.ExitOnError)
	cmd.Parse(os.Args[2:])

	csvPath := strings.Join(cmd.Args(), " ")
	if csvPath == "" {
		fmt.Println("Usage: melodia import <dataset.csv>")
		os.Exit(1)
	}

	// Importing is the service's startup path with both sources set.
	fmt.Printf("📥 Importing %s into %s...\n", csvPath, dbPath)
	svc, err := melodia.NewService(
		melodia.WithDataPath(csvPath),
		melodia.WithDBPath(dbPath),
	)
	if err != nil {
		fmt.Printf("❌ Import failed: %v\n", err)
		log.Errorf("Import failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	fmt.Printf("\n✅ Catalog now holds %d songs\n", svc.SongCount())
}

func handleAdd() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	title := cmd.String("title", "", "Song title (required)")
	artist := cmd.String("artist", "", "Artist name (required)")
	album := cmd.String("album", "", "Album name")
	genre := cmd.String("genre", "", "Playlist genre")
	popularity := cmd.Int("popularity", 0, "Popularity score (0-100)")
	durationMs := cmd.Int("duration-ms", 0, "Track duration in milliseconds")
	energy := cmd.Float64("energy", 0, "Energy (0-1)")
	tempo := cmd.Float64("tempo", 0, "Tempo in BPM")
	danceability := cmd.Float64("danceability", 0, "Danceability (0-1)")
	loudness := cmd.Float64("loudness", 0, "Loudness in dB")
	liveness := cmd.Float64("liveness", 0, "Liveness (0-1)")
	valence := cmd.Float64("valence", 0, "Valence (0-1)")
	speechiness := cmd.Float64("speechiness", 0, "Speechiness (0-1)")
	acousticness := cmd.Float64("acousticness", 0, "Acousticness (0-1)")
	cmd.Parse(os.Args[2:])

	if *title == "" || *artist == "" {
		fmt.Println("Error: --title and --artist are required")
		log.Warnf("Missing required arguments: title and artist")
		os.Exit(1)
	}

	svc := mustCreateService()
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	song := models.Song{
		Title:      *title,
		Artist:     *artist,
		Album:      *album,
		Genre:      *genre,
		Popularity: *popularity,
		DurationMs: *durationMs,
		Features: models.AudioFeatures{
			Energy:       *energy,
			Tempo:        *tempo,
			Danceability: *danceability,
			Loudness:     *loudness,
			Liveness:     *liveness,
			Valence:      *valence,
			Speechiness:  *speechiness,
			Acousticness: *acousticness,
		},
	}

	if err := svc.AddSong(ctx, song); err != nil {
		fmt.Printf("❌ Failed to add song: %v\n", err)
		log.Errorf("AddSong failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Successfully added song to the catalog!")
	fmt.Printf("   Title:  %s\n", *title)
	fmt.Printf("   Artist: %s\n", *artist)
	fmt.Printf("   Total:  %d songs\n", svc.SongCount())
}

func handleList() {
	log := logger.GetLogger()

	store, err := melodia.NewSQLiteStorage(dbPath)
	if err != nil {
		fmt.Printf("❌ Failed to open database: %v\n", err)
		log.Errorf("Storage initialization failed: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.ListRecords()
	if err != nil {
		fmt.Printf("❌ Failed to list songs: %v\n", err)
		log.Errorf("ListRecords failed: %v", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("\n📭 No songs in database")
		return
	}

	fmt.Printf("\n📚 %d song(s) in %s:\n\n", len(records), dbPath)
	for i, rec := range records {
		fmt.Printf("%d. \"%s\" by %s\n", i+1, rec.Title, rec.Artist)
		fmt.Printf("   Album: %s | Genre: %s | Popularity: %d\n", rec.Album, rec.Genre, rec.Popularity)
		fmt.Println()
	}
	log.Infof("Listed %d songs", len(records))
}

func handleInfo() {
	log := logger.GetLogger()

	cmd := flag.NewFlagSet("info", flag.ExitOnError)
	artist := cmd.String("artist", "", "Artist name (required)")
	cmd.Parse(os.Args[2:])

	title := strings.Join(cmd.Args(), " ")
	if title == "" || *artist == "" {
		fmt.Println("Usage: melodia info --artist <artist> <song title>")
		os.Exit(1)
	}

	clientID := os.Getenv("SPOTIFY_CLIENT_ID")
	clientSecret := os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		fmt.Println("❌ SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	enricher, err := enrich.NewSpotifyEnricher(ctx, clientID, clientSecret)
	if err != nil {
		fmt.Printf("❌ Failed to authenticate with Spotify: %v\n", err)
		log.Errorf("Enricher initialization failed: %v", err)
		os.Exit(1)
	}

	info, err := enricher.TrackInfo(ctx, title, *artist)
	if err != nil {
		fmt.Printf("❌ Lookup failed: %v\n", err)
		log.Errorf("TrackInfo failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ \"%s\" by %s\n", title, *artist)
	fmt.Printf("   Popularity: %d\n", info.Popularity)
	if info.DurationMs > 0 {
		duration := info.DurationMs / 1000
		fmt.Printf("   Duration:   %d:%02d\n", duration/60, duration%60)
	}
	if info.PreviewURL != "" {
		fmt.Printf("   Preview:    %s\n", info.PreviewURL)
	}
	if info.ExternalURL != "" {
		fmt.Printf("   Link:       %s\n", info.ExternalURL)
	}
	if info.AlbumArtURL != "" {
		fmt.Printf("   Art:        %s\n", info.AlbumArtURL)
	}
}

func printUsage() {
	fmt.Println("Melodia - Music Recommendation CLI")
	fmt.Println("\nEnvironment:")
	fmt.Println("  MELODIA_DATA_PATH  Path to the CSV song dataset")
	fmt.Println("  MELODIA_DB_PATH    Path to the SQLite catalog (default: melodia.sqlite3)")
	fmt.Println("\nUsage:")
	fmt.Println("  melodia recommend [--count N] [--min-popularity P] <song title>")
	fmt.Println("  melodia mood [--count N] <happy|sad|energetic|calm>")
	fmt.Println("  melodia random [--count N] [--min-popularity P] [--genre g]")
	fmt.Println("  melodia genre [--count N] <genre>")
	fmt.Println("  melodia region [--count N] [--min-popularity P]")
	fmt.Println("  melodia genres")
	fmt.Println("  melodia search <text>")
	fmt.Println("  melodia clusters [--k N]")
	fmt.Println("  melodia import <dataset.csv>")
	fmt.Println("  melodia add --title <title> --artist <artist> [feature flags]")
	fmt.Println("  melodia list")
	fmt.Println("  melodia info --artist <artist> <song title>")
	fmt.Println("\nExamples:")
	fmt.Println("  # Recommend songs similar to a title, tolerating typos")
	fmt.Println("  melodia recommend \"shape of yu\"")
	fmt.Println()
	fmt.Println("  # Five energetic songs")
	fmt.Println("  melodia mood energetic")
	fmt.Println()
	fmt.Println("  # Import a dataset into the local catalog database")
	fmt.Println("  melodia import spotify_songs.csv")
}
