package services

import (
	"context"

	"github.com/desertthunder/herald/internal/models"
)

// Catalog defines the operations the matching and polling layers need from a
// catalog service, independent of which source backs it.
type Catalog interface {
	// SearchArtist searches artists by name, in the service's own ranking order.
	SearchArtist(ctx context.Context, name string) ([]ArtistSummary, error)

	// ArtistReleases retrieves one page of an artist's releases starting at offset.
	ArtistReleases(ctx context.Context, artistID string, offset int) ([]models.Release, error)

	// Name returns the name of the service (e.g., "Deezer", "iTunes")
	Name() string
}

// ArtistSummary is a search result entry from either catalog.
type ArtistSummary struct {
	ID         string
	Name       string
	ArtworkURL string
}

// Track is a single tracklist entry.
type Track struct {
	ID          string
	Title       string
	DurationSec int
}

// AllReleases pages through a catalog's release listing until exhausted.
func AllReleases(ctx context.Context, c Catalog, artistID string) ([]models.Release, error) {
	var all []models.Release
	offset := 0

	for {
		page, err := c.ArtistReleases(ctx, artistID, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		offset += len(page)
	}
}
