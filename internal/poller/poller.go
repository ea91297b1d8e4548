// Package poller drives the periodic new-release check. A poll cycle walks a
// fixed sequence of states, then checks tracked artists in batches: batches
// run one after another, artists within a batch concurrently.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/notify"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
)

// batchSize is how many artists one batch checks concurrently.
const batchSize = 10

// State is a phase of the poll cycle.
type State int

const (
	StateNotStarted State = iota
	StatePermissionCheck
	StateNetworkCheck
	StateOptionalDelay
	StatePolling
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StatePermissionCheck:
		return "permission check"
	case StateNetworkCheck:
		return "network check"
	case StateOptionalDelay:
		return "startup delay"
	case StatePolling:
		return "polling"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// PermissionChecker gates the cycle on notification permission.
type PermissionChecker interface {
	Allowed(ctx context.Context) error
}

// NotifierPermission fails the permission gate when the notification sink
// discards sends. Without it a cycle would record ledger entries for
// notifications nobody received, suppressing them forever.
type NotifierPermission struct {
	Notifier notify.Notifier
}

func (c NotifierPermission) Allowed(ctx context.Context) error {
	if !notify.Configured(c.Notifier) {
		return errors.New("no notification sink configured")
	}
	return nil
}

// NetworkChecker gates the cycle on network availability under the
// configured policy.
type NetworkChecker interface {
	Available(ctx context.Context, class shared.NetworkClass) error
}

// ArtistStore is the artist persistence surface the poller needs.
type ArtistStore interface {
	List(criteria map[string]any) ([]*models.Artist, error)
	Update(artist *models.Artist) error
}

// Ledger records which notifications were already dispatched.
type Ledger interface {
	Exists(hash string) (bool, error)
	Record(rec models.NotificationRecord) error
}

// ArtworkFetcher retrieves cover art ahead of a notification send.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Summary reports what one poll cycle did.
type Summary struct {
	Checked  int
	Notified int
	Skipped  int
	Failed   int
}

// Options configures a poll cycle.
type Options struct {
	MaxReleaseAge time.Duration
	StartupDelay  time.Duration
	Network       shared.NetworkClass
}

// Poller runs release checks over all tracked artists.
type Poller struct {
	artists    ArtistStore
	deezer     services.Catalog
	ledger     Ledger
	notifier   notify.Notifier
	permission PermissionChecker
	network    NetworkChecker
	artwork    ArtworkFetcher
	opts       Options
	logger     *log.Logger
	state      State
	now        func() time.Time
}

// New creates a poller. Nil permission and network checkers default to
// always-allowed.
func New(artists ArtistStore, deezer services.Catalog, ledger Ledger, notifier notify.Notifier, opts Options, logger *log.Logger) *Poller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.MaxReleaseAge <= 0 {
		opts.MaxReleaseAge = 4 * 7 * 24 * time.Hour
	}
	if opts.Network == "" {
		opts.Network = shared.NetworkAny
	}

	return &Poller{
		artists:    artists,
		deezer:     deezer,
		ledger:     ledger,
		notifier:   notifier,
		permission: allowAll{},
		network:    alwaysUp{},
		opts:       opts,
		logger:     logger,
		state:      StateNotStarted,
		now:        time.Now,
	}
}

// SetPermissionChecker replaces the default permission gate.
func (p *Poller) SetPermissionChecker(c PermissionChecker) {
	if c != nil {
		p.permission = c
	}
}

// SetNetworkChecker replaces the default network gate.
func (p *Poller) SetNetworkChecker(c NetworkChecker) {
	if c != nil {
		p.network = c
	}
}

// SetArtworkFetcher enables cover-art prefetching before dispatch. Without a
// fetcher, artwork URLs are passed through unverified.
func (p *Poller) SetArtworkFetcher(f ArtworkFetcher) {
	p.artwork = f
}

// State returns the current phase of the cycle.
func (p *Poller) State() State {
	return p.state
}

func (p *Poller) transition(next State) {
	p.logger.Debug("poll state transition", "from", p.state.String(), "to", next.String())
	p.state = next
}

// Run executes one full poll cycle. The cycle always ends in the finished
// state; gate failures surface as errors alongside an empty summary.
func (p *Poller) Run(ctx context.Context) (Summary, error) {
	defer p.transition(StateFinished)

	p.transition(StatePermissionCheck)
	if err := p.permission.Allowed(ctx); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", shared.ErrPermissionDenied, err)
	}

	p.transition(StateNetworkCheck)
	if err := p.network.Available(ctx, p.opts.Network); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", shared.ErrNetworkUnavailable, err)
	}

	if p.opts.StartupDelay > 0 {
		p.transition(StateOptionalDelay)
		select {
		case <-time.After(p.opts.StartupDelay):
		case <-ctx.Done():
			return Summary{}, ctx.Err()
		}
	}

	p.transition(StatePolling)
	return p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) (Summary, error) {
	artists, err := p.artists.List(map[string]any{"notify": true})
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list artists: %w", err)
	}

	summary := Summary{}
	pool := pond.NewPool(batchSize)
	defer pool.StopAndWait()

	for start := 0; start < len(artists); start += batchSize {
		end := min(start+batchSize, len(artists))
		batch := artists[start:end]

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		outcomes := make([]outcome, len(batch))
		tasks := make([]pond.Task, len(batch))
		for i, artist := range batch {
			tasks[i] = pool.Submit(func() {
				outcomes[i] = p.checkArtist(ctx, artist)
			})
		}
		for _, task := range tasks {
			task.Wait()
		}

		for _, o := range outcomes {
			summary.Checked++
			switch {
			case o.err != nil:
				summary.Failed++
			case o.notified:
				summary.Notified++
			default:
				summary.Skipped++
			}
		}
	}

	p.logger.Info("poll cycle complete",
		"checked", summary.Checked, "notified", summary.Notified,
		"skipped", summary.Skipped, "failed", summary.Failed)

	return summary, nil
}

type outcome struct {
	notified bool
	err      error
}

// checkArtist fetches the artist's latest release and notifies when it is
// new, recent enough, and not already in the ledger.
func (p *Poller) checkArtist(ctx context.Context, artist *models.Artist) outcome {
	if !artist.Linked(models.SourceDeezer) {
		p.logger.Debug("skipping unlinked artist", "artist", artist.Name())
		return outcome{}
	}

	releases, err := p.deezer.ArtistReleases(ctx, artist.DeezerID(), 0)
	if err != nil {
		p.logger.Warn("release check failed", "artist", artist.Name(), "error", err)
		return outcome{err: err}
	}

	latest, ok := latestByDate(releases)
	if !ok {
		return outcome{}
	}

	if changed := p.recordLastRelease(artist, latest); changed {
		p.logger.Info("latest release changed",
			"artist", artist.Name(), "title", latest.Title, "date", latest.Date)
	}

	date, _ := latest.ParsedDate()
	if p.now().Sub(date) > p.opts.MaxReleaseAge {
		return outcome{}
	}

	hash := NotificationHash(artist.ID(), latest.Title, latest.Date)
	sent, err := p.ledger.Exists(hash)
	if err != nil {
		p.logger.Warn("ledger lookup failed", "artist", artist.Name(), "error", err)
		return outcome{err: err}
	}
	if sent {
		return outcome{}
	}

	notification := notify.Notification{
		ID:         hash,
		Title:      fmt.Sprintf("New %s from %s", latest.Kind, artist.Name()),
		Body:       fmt.Sprintf("%s (%s)", latest.Title, latest.Date),
		ArtworkURL: latest.ArtworkURL,
		Tags:       []string{"musical_note"},
	}
	if notification.ArtworkURL != "" && p.artwork != nil {
		if _, err := p.artwork.Fetch(ctx, notification.ArtworkURL); err != nil {
			// Cover art is best effort; the notification goes out text-only.
			p.logger.Debug("artwork fetch failed", "artist", artist.Name(), "error", err)
			notification.ArtworkURL = ""
		}
	}
	if err := p.notifier.Notify(ctx, notification); err != nil {
		// The ledger entry is only written after a successful send, so the
		// next cycle retries.
		p.logger.Warn("notification failed", "artist", artist.Name(), "error", err)
		return outcome{err: err}
	}

	record := models.NotificationRecord{
		Hash:        hash,
		ArtistID:    artist.ID(),
		ReleaseDate: latest.Date,
		SentAt:      p.now(),
	}
	if err := p.ledger.Record(record); err != nil {
		p.logger.Error("ledger write failed", "artist", artist.Name(), "error", err)
		return outcome{notified: true, err: err}
	}

	return outcome{notified: true}
}

func (p *Poller) recordLastRelease(artist *models.Artist, latest models.Release) bool {
	if artist.LastReleaseTitle() == latest.Title && artist.LastReleaseDate() == latest.Date {
		return false
	}

	artist.SetLastRelease(latest.Title, latest.Date)
	if err := p.artists.Update(artist); err != nil {
		p.logger.Warn("failed to persist last release", "artist", artist.Name(), "error", err)
		return false
	}
	return true
}

// latestByDate picks the most recent release with a parsable date.
func latestByDate(releases []models.Release) (models.Release, bool) {
	var latest models.Release
	var latestDate time.Time
	found := false

	for _, r := range releases {
		date, ok := r.ParsedDate()
		if !ok {
			continue
		}
		if !found || date.After(latestDate) {
			latest, latestDate = r, date
			found = true
		}
	}

	return latest, found
}

type allowAll struct{}

func (allowAll) Allowed(ctx context.Context) error { return nil }

type alwaysUp struct{}

func (alwaysUp) Available(ctx context.Context, _ shared.NetworkClass) error { return nil }
