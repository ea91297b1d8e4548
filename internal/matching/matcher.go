// Package matching links saved artists to their identifiers on both catalog
// services. Automatic matching is conservative: an exact name match on the
// first search result, with cross-source links additionally verified by
// release-title overlap.
package matching

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
	"github.com/desertthunder/herald/internal/titles"
)

// linkThreshold is the minimum number of shared normalized release titles
// required before two catalog identities are treated as the same artist.
const linkThreshold = 3

// maxCandidates caps how many search results a manual search annotates.
const maxCandidates = 5

// ArtistStore persists link changes made during matching.
type ArtistStore interface {
	Update(artist *models.Artist) error
}

// Result reports what a match pass did for one artist. Matching never fails
// an artist outright; anything that prevented a link lands in Skipped.
type Result struct {
	ArtistID     string
	Name         string
	DeezerLinked bool
	ITunesLinked bool
	Skipped      []string
}

// Candidate is a ranked cross-source match candidate from a manual search.
type Candidate struct {
	ID          string
	Name        string
	LatestTitle string
	LatestDate  string
	Overlap     int
}

// IdentityMatcher resolves catalog identifiers for saved artists.
type IdentityMatcher struct {
	deezer         services.Catalog
	itunes         services.Catalog
	store          ArtistStore
	crossSource    bool
	networkAllowed func(ctx context.Context) error
	logger         *log.Logger
}

// NewIdentityMatcher creates a matcher over the two catalogs. crossSource
// controls whether iTunes identities are linked at all.
func NewIdentityMatcher(deezer, itunes services.Catalog, store ArtistStore, crossSource bool, logger *log.Logger) *IdentityMatcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &IdentityMatcher{
		deezer:      deezer,
		itunes:      itunes,
		store:       store,
		crossSource: crossSource,
		logger:      logger,
	}
}

// SetNetworkGate installs a check consulted before any catalog lookup.
// A nil gate means matching may always use the network.
func (m *IdentityMatcher) SetNetworkGate(gate func(ctx context.Context) error) {
	m.networkAllowed = gate
}

// MatchArtist attempts to link any missing identifiers for the artist.
// The Deezer link is persisted as soon as it is found so a later iTunes
// failure cannot lose it.
func (m *IdentityMatcher) MatchArtist(ctx context.Context, artist *models.Artist) Result {
	result := Result{ArtistID: artist.ID(), Name: artist.Name()}

	if artist.Linked(models.SourceDeezer) && artist.Linked(models.SourceITunes) {
		return result
	}

	if m.networkAllowed != nil {
		if err := m.networkAllowed(ctx); err != nil {
			m.logger.Info("skipping match, network policy disallows lookups",
				"artist", artist.Name(), "error", err)
			result.Skipped = append(result.Skipped, "network policy disallows catalog lookups")
			return result
		}
	}

	if !artist.Linked(models.SourceDeezer) {
		m.matchDeezer(ctx, artist, &result)
	}

	if artist.Linked(models.SourceITunes) {
		return result
	}
	if !m.crossSource {
		result.Skipped = append(result.Skipped, "cross-source matching disabled")
		return result
	}
	if !artist.Linked(models.SourceDeezer) {
		result.Skipped = append(result.Skipped, "no primary identity to verify against")
		return result
	}

	m.matchITunes(ctx, artist, &result)
	return result
}

func (m *IdentityMatcher) matchDeezer(ctx context.Context, artist *models.Artist, result *Result) {
	summaries, err := m.deezer.SearchArtist(ctx, artist.Name())
	if err != nil {
		m.logger.Warn("deezer search failed", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "deezer search failed")
		return
	}
	if len(summaries) == 0 || summaries[0].Name != artist.Name() {
		result.Skipped = append(result.Skipped, "no exact deezer name match")
		return
	}

	if !artist.SetDeezerID(summaries[0].ID) {
		result.Skipped = append(result.Skipped, "conflicting deezer identifier")
		return
	}
	if err := m.store.Update(artist); err != nil {
		m.logger.Error("failed to persist deezer link", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "failed to persist deezer link")
		return
	}

	result.DeezerLinked = true
	m.logger.Info("linked deezer identity", "artist", artist.Name(), "deezer_id", summaries[0].ID)
}

func (m *IdentityMatcher) matchITunes(ctx context.Context, artist *models.Artist, result *Result) {
	summaries, err := m.itunes.SearchArtist(ctx, artist.Name())
	if err != nil {
		m.logger.Warn("itunes search failed", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "itunes search failed")
		return
	}
	if len(summaries) == 0 || summaries[0].Name != artist.Name() {
		result.Skipped = append(result.Skipped, "no exact itunes name match")
		return
	}
	candidate := summaries[0]

	reference, err := m.titleSet(ctx, m.deezer, artist.DeezerID())
	if err != nil {
		m.logger.Warn("deezer catalog fetch failed", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "could not fetch reference catalog")
		return
	}

	candidateTitles, err := m.titleSet(ctx, m.itunes, candidate.ID)
	if err != nil {
		m.logger.Warn("itunes catalog fetch failed", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "could not fetch candidate catalog")
		return
	}

	overlap := titles.Intersection(reference, candidateTitles)
	if overlap < linkThreshold {
		m.logger.Info("itunes candidate below overlap threshold",
			"artist", artist.Name(), "candidate", candidate.Name, "overlap", overlap)
		result.Skipped = append(result.Skipped, "insufficient release overlap")
		return
	}

	if !artist.SetITunesID(candidate.ID) {
		result.Skipped = append(result.Skipped, "conflicting itunes identifier")
		return
	}
	if err := m.store.Update(artist); err != nil {
		m.logger.Error("failed to persist itunes link", "artist", artist.Name(), "error", err)
		result.Skipped = append(result.Skipped, "failed to persist itunes link")
		return
	}

	result.ITunesLinked = true
	m.logger.Info("linked itunes identity",
		"artist", artist.Name(), "itunes_id", candidate.ID, "overlap", overlap)
}

// SearchCandidates runs a manual cross-source search and annotates each
// candidate with its latest release and overlap against the artist's Deezer
// catalog, ranked by overlap.
func (m *IdentityMatcher) SearchCandidates(ctx context.Context, artist *models.Artist) ([]Candidate, error) {
	summaries, err := m.itunes.SearchArtist(ctx, artist.Name())
	if err != nil {
		return nil, err
	}
	if len(summaries) > maxCandidates {
		summaries = summaries[:maxCandidates]
	}

	var reference map[string]struct{}
	if artist.Linked(models.SourceDeezer) {
		reference, err = m.titleSet(ctx, m.deezer, artist.DeezerID())
		if err != nil {
			m.logger.Warn("deezer catalog fetch failed", "artist", artist.Name(), "error", err)
		}
	}

	candidates := make([]Candidate, 0, len(summaries))
	for _, summary := range summaries {
		candidate := Candidate{ID: summary.ID, Name: summary.Name}

		releases, err := services.AllReleases(ctx, m.itunes, summary.ID)
		if err != nil {
			m.logger.Warn("candidate catalog fetch failed", "candidate", summary.Name, "error", err)
			candidates = append(candidates, candidate)
			continue
		}

		if latest, ok := latestRelease(releases); ok {
			candidate.LatestTitle = latest.Title
			candidate.LatestDate = latest.Date
		}
		if reference != nil {
			candidate.Overlap = titles.Intersection(reference, releaseTitleSet(releases))
		}

		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Overlap > candidates[j].Overlap
	})

	return candidates, nil
}

// Link manually links the artist to an iTunes identity, bypassing the
// overlap check. Used after the user confirms a search candidate.
func (m *IdentityMatcher) Link(artist *models.Artist, itunesID string) error {
	if !artist.SetITunesID(itunesID) {
		return shared.ErrAmbiguousMatch
	}
	return m.store.Update(artist)
}

func (m *IdentityMatcher) titleSet(ctx context.Context, c services.Catalog, artistID string) (map[string]struct{}, error) {
	releases, err := services.AllReleases(ctx, c, artistID)
	if err != nil {
		return nil, err
	}
	return releaseTitleSet(releases), nil
}

func releaseTitleSet(releases []models.Release) map[string]struct{} {
	names := make([]string, len(releases))
	for i, r := range releases {
		names[i] = r.Title
	}
	return titles.NormalizedSet(names)
}

func latestRelease(releases []models.Release) (models.Release, bool) {
	var latest models.Release
	found := false

	for _, r := range releases {
		date, ok := r.ParsedDate()
		if !ok {
			continue
		}
		if !found {
			latest = r
			found = true
			continue
		}
		if current, _ := latest.ParsedDate(); date.After(current) {
			latest = r
		}
	}

	return latest, found
}
