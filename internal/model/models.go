package model

// NumFeatures is the number of numeric audio features per song.
const NumFeatures = 8

// Feature indices into a FeatureVector. The order matches the dataset
// columns and must never change once a catalog has been built.
const (
	FeatEnergy = iota
	FeatTempo
	FeatDanceability
	FeatLoudness
	FeatLiveness
	FeatValence
	FeatSpeechiness
	FeatAcousticness
)

// FeatureColumns holds the dataset column name for each feature index.
var FeatureColumns = [NumFeatures]string{
	"energy",
	"tempo",
	"danceability",
	"loudness",
	"liveness",
	"valence",
	"speechiness",
	"acousticness",
}

// FeatureVector holds the raw or standardized values of the 8 audio
// features, indexed by the Feat* constants.
type FeatureVector [NumFeatures]float64

// SongRecord is one immutable catalog row. Identity is positional
// (the row index in the catalog); titles are not unique.
type SongRecord struct {
	Title      string
	Artist     string
	Album      string
	Genre      string
	Popularity int // 0-100
	DurationMs int
	Features   FeatureVector
}
