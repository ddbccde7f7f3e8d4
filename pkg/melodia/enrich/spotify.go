// Package enrich implements the optional music-catalog enrichment
// collaborator on top of the Spotify Web API. Results are display
// metadata only; the recommendation engine never scores with them.
package enrich

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sarthakvats/melodia/pkg/models"
)

// SpotifyEnricher looks up track metadata using the client-credentials
// flow, which needs no user login.
type SpotifyEnricher struct {
	client *spotify.Client
}

// NewSpotifyEnricher authenticates against the Spotify API.
func NewSpotifyEnricher(ctx context.Context, clientID, clientSecret string) (*SpotifyEnricher, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token request: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &SpotifyEnricher{client: spotify.New(httpClient)}, nil
}

// TrackInfo searches for the best match of (title, artist) and
// returns its preview, link and artwork references.
func (e *SpotifyEnricher) TrackInfo(ctx context.Context, title, artist string) (*models.TrackInfo, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	results, err := e.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, fmt.Errorf("no track found for %q by %q", title, artist)
	}

	track := results.Tracks.Tracks[0]
	info := &models.TrackInfo{
		PreviewURL:  track.PreviewURL,
		ExternalURL: track.ExternalURLs["spotify"],
		Popularity:  int(track.Popularity),
		DurationMs:  int(track.Duration),
		Explicit:    track.Explicit,
	}
	if len(track.Album.Images) > 0 {
		info.AlbumArtURL = track.Album.Images[0].URL
	}
	return info, nil
}
