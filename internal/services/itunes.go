// iTunes Search API implementation of [Catalog]
//
// Response types based on the iTunes Search API documentation. The API has
// two endpoints: /search?term=&entity= and /lookup?id=&entity=.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
	"golang.org/x/time/rate"
)

const defaultITunesBaseURL = "https://itunes.apple.com"

// ITunesResult is a single entry in an iTunes search or lookup response.
// The wrapperType field discriminates artists from collections.
type ITunesResult struct {
	WrapperType    string `json:"wrapperType"` // artist | collection
	ArtistID       int64  `json:"artistId"`
	ArtistName     string `json:"artistName"`
	CollectionID   int64  `json:"collectionId"`
	CollectionName string `json:"collectionName"`
	CollectionType string `json:"collectionType"` // Album, Compilation
	ArtworkURL100  string `json:"artworkUrl100"`
	ReleaseDate    string `json:"releaseDate"` // RFC3339; date portion is authoritative
	PrimaryGenre   string `json:"primaryGenreName"`
}

type itunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []ITunesResult `json:"results"`
}

// ITunesService implements [Catalog] for the iTunes Search API.
type ITunesService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewITunesService creates a new iTunes service instance.
//
// Apple documents roughly 20 search calls per minute; rpm defaults to 20.
func NewITunesService(baseURL string, client *http.Client, rpm float64) *ITunesService {
	if baseURL == "" {
		baseURL = defaultITunesBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if rpm <= 0 {
		rpm = 20
	}

	return &ITunesService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rpm/60.0), 1),
	}
}

// Name returns the service name.
func (s *ITunesService) Name() string {
	return "iTunes"
}

func (s *ITunesService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: itunes status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search performs a raw term search for the given entity
// (e.g. "musicArtist", "album").
func (s *ITunesService) Search(ctx context.Context, term, entity string) ([]ITunesResult, error) {
	endpoint := fmt.Sprintf("/search?term=%s&entity=%s&limit=25", url.QueryEscape(term), url.QueryEscape(entity))

	var response itunesResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Results, nil
}

// Lookup performs a raw id lookup expanded to the given entity.
func (s *ITunesService) Lookup(ctx context.Context, id, entity string) ([]ITunesResult, error) {
	endpoint := fmt.Sprintf("/lookup?id=%s&entity=%s&limit=200", url.QueryEscape(id), url.QueryEscape(entity))

	var response itunesResponse
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	return response.Results, nil
}

// SearchArtist searches artists by name in iTunes ranking order.
func (s *ITunesService) SearchArtist(ctx context.Context, name string) ([]ArtistSummary, error) {
	results, err := s.Search(ctx, name, "musicArtist")
	if err != nil {
		return nil, err
	}

	var summaries []ArtistSummary
	for _, res := range results {
		if res.WrapperType != "" && res.WrapperType != "artist" {
			continue
		}
		summaries = append(summaries, ArtistSummary{
			ID:   strconv.FormatInt(res.ArtistID, 10),
			Name: res.ArtistName,
		})
	}

	return summaries, nil
}

// ArtistReleases retrieves an artist's albums via lookup. The iTunes lookup
// endpoint is not paginated; any offset past the first page yields an empty
// result so [AllReleases] terminates.
func (s *ITunesService) ArtistReleases(ctx context.Context, artistID string, offset int) ([]models.Release, error) {
	if offset > 0 {
		return nil, nil
	}

	results, err := s.Lookup(ctx, artistID, "album")
	if err != nil {
		return nil, err
	}

	var releases []models.Release
	for _, res := range results {
		// Lookup echoes the artist itself as the first result.
		if res.WrapperType != "collection" {
			continue
		}
		releases = append(releases, toITunesRelease(res))
	}

	return releases, nil
}

// HighResArtwork rewrites iTunes' low-resolution artwork URL to the
// high-resolution variant by fixed string substitution.
func HighResArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, "100x100", "1000x1000", 1)
}

func toITunesRelease(res ITunesResult) models.Release {
	return models.Release{
		SourceID:   strconv.FormatInt(res.CollectionID, 10),
		Title:      res.CollectionName,
		ArtistName: res.ArtistName,
		ArtworkURL: HighResArtwork(res.ArtworkURL100),
		Date:       truncateDate(res.ReleaseDate),
		Source:     models.SourceITunes,
		Kind:       classifyITunes(res),
	}
}

// classifyITunes derives the release kind. iTunes marks singles and EPs by
// title suffix rather than collectionType.
func classifyITunes(res ITunesResult) models.ReleaseType {
	title := strings.ToLower(res.CollectionName)
	switch {
	case strings.HasSuffix(title, "- single"):
		return models.TypeSingle
	case strings.HasSuffix(title, "- ep"):
		return models.TypeEP
	case strings.EqualFold(res.CollectionType, "album"):
		return models.TypeAlbum
	default:
		return models.TypeRelease
	}
}

func truncateDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
