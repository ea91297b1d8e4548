package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/imagecache"
	"github.com/desertthunder/herald/internal/matching"
	"github.com/desertthunder/herald/internal/notify"
	"github.com/desertthunder/herald/internal/poller"
	"github.com/desertthunder/herald/internal/repositories"
	"github.com/desertthunder/herald/internal/resolver"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
	"github.com/desertthunder/herald/internal/timeline"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	db         *sql.DB
	deezer     services.Catalog
	deezerFull *services.DeezerService
	itunes     services.Catalog
	resolver   *resolver.NameResolver
	notifier   notify.Notifier
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	artists      *repositories.ArtistRepository
	ledger       *repositories.LedgerRepository
	dnsCache     *repositories.DNSRepository
	releaseCache *repositories.ReleaseCacheRepository
	artwork      *imagecache.Cache
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Deezer     services.Catalog
	ITunes     services.Catalog
	Notifier   notify.Notifier
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewNtfyService("", nil, opts.Logger)
	}

	return &Runner{
		artwork:    imagecache.New(0, 0),
		config:     opts.Config,
		deezer:     opts.Deezer,
		itunes:     opts.ITunes,
		notifier:   opts.Notifier,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, artistCommand, matchCommand, timelineCommand, pollCommand, daemonCommand, cacheCommand, configCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureDatabase opens the configured database on first use and wires the
// repositories and resolver-backed HTTP client behind it.
func (r *Runner) ensureDatabase() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database (run 'herald setup' first): %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	r.artists = repositories.NewArtistRepository(db)
	r.ledger = repositories.NewLedgerRepository(db)
	r.dnsCache = repositories.NewDNSRepository(db)
	r.releaseCache = repositories.NewReleaseCacheRepository(db)
	r.resolver = resolver.NewNameResolver(r.dnsCache, r.logger)

	// Every catalog call shares the cached-resolver transport.
	r.httpClient = resolver.NewHTTPClient(r.resolver, 30*time.Second)
	r.deezerFull = services.NewDeezerService(r.config.Sources.DeezerBaseURL, r.httpClient, r.config.Sources.DeezerRPS)
	r.deezer = r.deezerFull
	r.itunes = services.NewITunesService(r.config.Sources.ITunesBaseURL, r.httpClient, r.config.Sources.ITunesRPM)

	if r.config.Notifications.Enabled {
		timeout := time.Duration(r.config.Notifications.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := &http.Client{Transport: r.httpClient.Transport, Timeout: timeout}
		r.notifier = notify.NewNtfyService(r.config.Notifications.NtfyTopic, client, r.logger)
	}

	return nil
}

// Close releases the database handle.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) newMatcher() *matching.IdentityMatcher {
	m := matching.NewIdentityMatcher(r.deezer, r.itunes, r.artists, r.config.Sources.CrossSource, r.logger)
	if r.resolver != nil {
		check := &resolverNetworkCheck{resolver: r.resolver}
		network := r.config.Polling.Network
		m.SetNetworkGate(func(ctx context.Context) error {
			return check.Available(ctx, network)
		})
	}
	return m
}

func (r *Runner) newMerger() *timeline.Merger {
	return timeline.NewMerger(r.deezer, r.itunes, r.releaseCache, r.config.Sources.CrossSource, r.logger)
}

func (r *Runner) newPoller() *poller.Poller {
	opts := poller.Options{
		MaxReleaseAge: r.config.Polling.MaxReleaseAge(),
		StartupDelay:  r.config.Polling.StartupDelay(),
		Network:       r.config.Polling.Network,
	}
	p := poller.New(r.artists, r.deezer, r.ledger, r.notifier, opts, r.logger)
	p.SetPermissionChecker(poller.NotifierPermission{Notifier: r.notifier})
	p.SetNetworkChecker(&resolverNetworkCheck{resolver: r.resolver})
	p.SetArtworkFetcher(imagecache.NewFetcher(r.artwork, r.httpClient))
	return p
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
