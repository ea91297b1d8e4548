// Package timeline merges release listings from both catalog services into a
// single deduplicated, newest-first view across every tracked artist.
package timeline

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
	"github.com/desertthunder/herald/internal/titles"
)

// ReleaseCache persists fetched releases and serves them back when a source
// is unreachable.
type ReleaseCache interface {
	Put(artistID string, release models.Release) error
	ByArtist(artistID string) ([]models.Release, error)
}

// Entry is one timeline row: a release attributed to the tracked artist it
// belongs to.
type Entry struct {
	ArtistID   string
	ArtistName string
	Release    models.Release
}

// Merger builds merged release timelines.
type Merger struct {
	deezer      services.Catalog
	itunes      services.Catalog
	cache       ReleaseCache
	crossSource bool
	logger      *log.Logger
}

// NewMerger creates a merger over the two catalogs. A nil cache disables the
// offline fallback.
func NewMerger(deezer, itunes services.Catalog, cache ReleaseCache, crossSource bool, logger *log.Logger) *Merger {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Merger{
		deezer:      deezer,
		itunes:      itunes,
		cache:       cache,
		crossSource: crossSource,
		logger:      logger,
	}
}

// ForArtist fetches and merges both sources' releases for one artist.
// Duplicate releases collapse on (canonical title, date), keeping the Deezer
// copy. A failing artist yields zero releases, never an error.
func (m *Merger) ForArtist(ctx context.Context, artist *models.Artist) []models.Release {
	var merged []models.Release
	seen := make(map[string]struct{})

	appendFrom := func(releases []models.Release) {
		for _, release := range releases {
			key := titles.DedupKey(release.Title, release.Date)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, release)
		}
	}

	var fromDeezer, fromITunes []models.Release
	var wg sync.WaitGroup
	if artist.Linked(models.SourceDeezer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fromDeezer = m.fetch(ctx, m.deezer, artist)
		}()
	}
	if m.crossSource && artist.Linked(models.SourceITunes) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fromITunes = m.fetch(ctx, m.itunes, artist)
		}()
	}
	wg.Wait()

	// Deezer appended first so its copy wins the dedup.
	appendFrom(fromDeezer)
	appendFrom(fromITunes)

	SortNewestFirst(merged)
	return merged
}

// Merge builds the full timeline across all given artists. Artists are
// fetched concurrently; order of the result is by release date regardless of
// completion order.
func (m *Merger) Merge(ctx context.Context, artists []*models.Artist) []Entry {
	entries := make([][]Entry, len(artists))

	var wg sync.WaitGroup
	for i, artist := range artists {
		wg.Add(1)
		go func(i int, artist *models.Artist) {
			defer wg.Done()
			releases := m.ForArtist(ctx, artist)
			rows := make([]Entry, len(releases))
			for j, release := range releases {
				rows[j] = Entry{ArtistID: artist.ID(), ArtistName: artist.Name(), Release: release}
			}
			entries[i] = rows
		}(i, artist)
	}
	wg.Wait()

	var all []Entry
	for _, rows := range entries {
		all = append(all, rows...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return newer(all[i].Release, all[j].Release)
	})

	return all
}

func (m *Merger) fetch(ctx context.Context, c services.Catalog, artist *models.Artist) []models.Release {
	artistID := artist.DeezerID()
	if c == m.itunes {
		artistID = artist.ITunesID()
	}

	releases, err := services.AllReleases(ctx, c, artistID)
	if err != nil {
		m.logger.Warn("release fetch failed",
			"artist", artist.Name(), "source", c.Name(), "error", err)
		return m.cached(artist.ID(), c)
	}

	if m.cache != nil {
		for _, release := range releases {
			if err := m.cache.Put(artist.ID(), release); err != nil {
				m.logger.Warn("release cache write failed", "artist", artist.Name(), "error", err)
				break
			}
		}
	}

	return releases
}

func (m *Merger) cached(artistID string, c services.Catalog) []models.Release {
	if m.cache == nil {
		return nil
	}

	cached, err := m.cache.ByArtist(artistID)
	if err != nil {
		m.logger.Warn("release cache read failed", "artist_id", artistID, "error", err)
		return nil
	}

	var fromSource []models.Release
	for _, release := range cached {
		if release.Source == sourceOf(c) {
			fromSource = append(fromSource, release)
		}
	}
	return fromSource
}

func sourceOf(c services.Catalog) models.Source {
	if c.Name() == "iTunes" {
		return models.SourceITunes
	}
	return models.SourceDeezer
}

// SortNewestFirst orders releases by date descending. Releases with missing
// or unparsable dates sort last.
func SortNewestFirst(releases []models.Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return newer(releases[i], releases[j])
	})
}

func newer(a, b models.Release) bool {
	da, okA := a.ParsedDate()
	db, okB := b.ParsedDate()
	if okA != okB {
		return okA
	}
	if !okA {
		return false
	}
	return da.After(db)
}
