// Deezer API implementation of [Catalog]
//
// Response types based on https://developers.deezer.com/api
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
	"golang.org/x/time/rate"
)

const defaultDeezerBaseURL = "https://api.deezer.com"

// DeezerArtist represents an artist in Deezer responses.
type DeezerArtist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Picture   string `json:"picture_xl"`
	NbAlbum   int    `json:"nb_album"`
	NbFan     int    `json:"nb_fan"`
	Tracklist string `json:"tracklist"`
}

// DeezerAlbum represents an album in Deezer responses.
type DeezerAlbum struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Cover       string        `json:"cover_xl"`
	ReleaseDate string        `json:"release_date"` // YYYY-MM-DD
	RecordType  string        `json:"record_type"`  // album, single, ep, compilation
	Artist      *DeezerArtist `json:"artist,omitempty"`
}

// DeezerTrack represents a track in Deezer tracklist responses.
type DeezerTrack struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"` // seconds
}

type deezerList[T any] struct {
	Data  []T    `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
}

type deezerError struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// DeezerService implements [Catalog] for the Deezer API.
type DeezerService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDeezerService creates a new Deezer service instance.
//
// Deezer allows 50 requests per 5 seconds per IP; rps defaults to 10.
func NewDeezerService(baseURL string, client *http.Client, rps float64) *DeezerService {
	if baseURL == "" {
		baseURL = defaultDeezerBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if rps <= 0 {
		rps = 10
	}

	return &DeezerService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Name returns the service name.
func (d *DeezerService) Name() string {
	return "Deezer"
}

func (d *DeezerService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := d.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: deezer status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body := json.NewDecoder(resp.Body)
	if result != nil {
		if err := body.Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkDeezerError surfaces Deezer's in-band error envelope, which arrives
// with HTTP 200.
func checkDeezerError(raw json.RawMessage) error {
	var envelope deezerError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil {
		return fmt.Errorf("%w: deezer error %d: %s", shared.ErrAPIRequest, envelope.Error.Code, envelope.Error.Message)
	}
	return nil
}

func (d *DeezerService) getChecked(ctx context.Context, endpoint string, result any) error {
	var raw json.RawMessage
	if err := d.doRequest(ctx, endpoint, &raw); err != nil {
		return err
	}
	if err := checkDeezerError(raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SearchArtist searches artists by name in Deezer's ranking order.
func (d *DeezerService) SearchArtist(ctx context.Context, name string) ([]ArtistSummary, error) {
	endpoint := "/search/artist?q=" + url.QueryEscape(name)

	var response deezerList[DeezerArtist]
	if err := d.getChecked(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	summaries := make([]ArtistSummary, len(response.Data))
	for i, artist := range response.Data {
		summaries[i] = ArtistSummary{
			ID:         strconv.FormatInt(artist.ID, 10),
			Name:       artist.Name,
			ArtworkURL: artist.Picture,
		}
	}

	return summaries, nil
}

// ArtistDetails retrieves an artist by ID.
func (d *DeezerService) ArtistDetails(ctx context.Context, artistID string) (*DeezerArtist, error) {
	var artist DeezerArtist
	endpoint := fmt.Sprintf("/artist/%s", url.PathEscape(artistID))
	if err := d.getChecked(ctx, endpoint, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistReleases retrieves one page of an artist's albums starting at offset.
func (d *DeezerService) ArtistReleases(ctx context.Context, artistID string, offset int) ([]models.Release, error) {
	endpoint := fmt.Sprintf("/artist/%s/albums?index=%d", url.PathEscape(artistID), offset)

	var response deezerList[DeezerAlbum]
	if err := d.getChecked(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	releases := make([]models.Release, len(response.Data))
	for i, album := range response.Data {
		releases[i] = d.toRelease(album)
	}

	return releases, nil
}

// AlbumDetails retrieves a single album by ID.
func (d *DeezerService) AlbumDetails(ctx context.Context, albumID string) (*models.Release, error) {
	var album DeezerAlbum
	endpoint := fmt.Sprintf("/album/%s", url.PathEscape(albumID))
	if err := d.getChecked(ctx, endpoint, &album); err != nil {
		return nil, err
	}

	release := d.toRelease(album)
	return &release, nil
}

// Tracklist retrieves the tracks of an album.
func (d *DeezerService) Tracklist(ctx context.Context, albumID string) ([]Track, error) {
	endpoint := fmt.Sprintf("/album/%s/tracks", url.PathEscape(albumID))

	var response deezerList[DeezerTrack]
	if err := d.getChecked(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, len(response.Data))
	for i, t := range response.Data {
		tracks[i] = Track{
			ID:          strconv.FormatInt(t.ID, 10),
			Title:       t.Title,
			DurationSec: t.Duration,
		}
	}

	return tracks, nil
}

func (d *DeezerService) toRelease(album DeezerAlbum) models.Release {
	artistName := ""
	if album.Artist != nil {
		artistName = album.Artist.Name
	}

	return models.Release{
		SourceID:   strconv.FormatInt(album.ID, 10),
		Title:      album.Title,
		ArtistName: artistName,
		ArtworkURL: album.Cover,
		Date:       album.ReleaseDate,
		Source:     models.SourceDeezer,
		Kind:       models.ClassifyReleaseType(album.RecordType),
	}
}
