package models

// AudioFeatures are the raw numeric descriptors of one song.
type AudioFeatures struct {
	Energy       float64 `json:"energy"`
	Tempo        float64 `json:"tempo"` // BPM
	Danceability float64 `json:"danceability"`
	Loudness     float64 `json:"loudness"` // dB
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
	Speechiness  float64 `json:"speechiness"`
	Acousticness float64 `json:"acousticness"`
}

// Song is a catalog entry as exposed to API and CLI consumers.
type Song struct {
	Title      string        `json:"track_name"`
	Artist     string        `json:"artist"`
	Album      string        `json:"album"`
	Genre      string        `json:"genre"`
	Popularity int           `json:"popularity"` // 0-100
	DurationMs int           `json:"duration_ms"`
	Features   AudioFeatures `json:"features"`
}

// Recommendation is a song together with its similarity score against
// the resolved input song.
type Recommendation struct {
	Song
	Score float64 `json:"similarity_score"`
}

// RecommendationResult is the terminal outcome of a query-driven
// recommendation: either the resolved input song with its ranked
// recommendations, or a not-found message with fuzzy suggestions.
type RecommendationResult struct {
	Found           bool             `json:"found"`
	InputSong       *Song            `json:"input_song,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Message         string           `json:"message,omitempty"`
	Suggestions     []string         `json:"suggestions,omitempty"`
}

// GenreCount is one distinct genre with its catalog row count.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// MoodCluster is one vibe cluster: centroid feature values plus the
// member songs.
type MoodCluster struct {
	Centroid map[string]float64 `json:"centroid"`
	Songs    []Song             `json:"songs"`
}

// TrackInfo is display-only enrichment for a resolved (title, artist)
// pair, supplied by an external music catalog. Never used for
// scoring.
type TrackInfo struct {
	PreviewURL  string `json:"preview_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	AlbumArtURL string `json:"album_art_url,omitempty"`
	Popularity  int    `json:"popularity"`
	DurationMs  int    `json:"duration_ms"`
	Explicit    bool   `json:"explicit"`
}
