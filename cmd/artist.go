package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/herald/internal/library"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/poller"
	"github.com/desertthunder/herald/internal/shared"
	"github.com/desertthunder/herald/internal/timeline"
	"github.com/urfave/cli/v3"
)

// ArtistAdd saves a new tracked artist and attempts to link it immediately.
func (r *Runner) ArtistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	if existing, err := r.artists.GetByName(name); err == nil && existing != nil {
		return fmt.Errorf("artist already tracked: %s", name)
	}

	artist := models.NewArtist(0, name)
	artist.SetNotify(!cmd.Bool("mute"))
	if err := r.artists.Create(artist); err != nil {
		return fmt.Errorf("failed to save artist: %w", err)
	}

	r.logger.Info("artist saved", "name", name, "id", artist.ID())

	if cmd.Bool("no-match") {
		return r.writePlainln("✓ Added %s", name)
	}

	result := r.newMatcher().MatchArtist(ctx, artist)
	r.writePlainln("✓ Added %s", name)
	if result.DeezerLinked {
		r.writePlainln("  Linked Deezer identity: %s", artist.DeezerID())
	}
	if result.ITunesLinked {
		r.writePlainln("  Linked iTunes identity: %s", artist.ITunesID())
	}
	for _, reason := range result.Skipped {
		r.writePlainln("  Skipped: %s", reason)
	}

	return nil
}

// ArtistRemove stops tracking an artist.
func (r *Runner) ArtistRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artist, err := r.artists.GetByName(name)
	if err != nil {
		return err
	}
	if err := r.artists.Delete(artist.ID()); err != nil {
		return err
	}
	// Withdraw any notification still surfaced for the removed artist.
	if title := artist.LastReleaseTitle(); title != "" {
		r.notifier.Cancel(poller.NotificationHash(artist.ID(), title, artist.LastReleaseDate()))
	}

	return r.writePlainln("✓ Removed %s", name)
}

// ArtistShow prints catalog details for one tracked artist: Deezer profile
// numbers, the latest release and its tracklist.
func (r *Runner) ArtistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artist, err := r.artists.GetByName(name)
	if err != nil {
		return err
	}
	if err := r.writePlainln("%s", artist.Name()); err != nil {
		return err
	}
	if !artist.Linked(models.SourceDeezer) {
		return r.writePlainln("  not linked yet, run 'herald match run --artist \"%s\"'", artist.Name())
	}

	details, err := r.deezerFull.ArtistDetails(ctx, artist.DeezerID())
	if err != nil {
		return err
	}
	if err := r.writePlainln("  albums: %d  fans: %d", details.NbAlbum, details.NbFan); err != nil {
		return err
	}

	releases, err := r.deezerFull.ArtistReleases(ctx, artist.DeezerID(), 0)
	if err != nil {
		return err
	}
	timeline.SortNewestFirst(releases)
	if len(releases) == 0 {
		return r.writePlainln("  no releases found")
	}

	latest := releases[0]
	if err := r.writePlainln("  latest: %s (%s, %s)", latest.Title, latest.Kind, latest.Date); err != nil {
		return err
	}

	tracks, err := r.deezerFull.Tracklist(ctx, latest.SourceID)
	if err != nil {
		r.logger.Warn("tracklist fetch failed", "album", latest.Title, "error", err)
		return nil
	}
	for i, track := range tracks {
		if err := r.writePlainln("    %2d. %s (%d:%02d)", i+1, track.Title, track.DurationSec/60, track.DurationSec%60); err != nil {
			return err
		}
	}

	return nil
}

// ArtistList prints all tracked artists.
func (r *Runner) ArtistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artists, err := r.artists.List(map[string]any{})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]map[string]any, len(artists))
		for i, artist := range artists {
			rows[i] = map[string]any{
				"id":           artist.ID(),
				"name":         artist.Name(),
				"deezer_id":    artist.DeezerID(),
				"itunes_id":    artist.ITunesID(),
				"last_release": artist.LastReleaseTitle(),
				"notify":       artist.Notify(),
			}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(artists) == 0 {
		return r.writePlainln("no tracked artists (add one with 'herald artist add')")
	}

	for _, artist := range artists {
		links := ""
		if artist.Linked(models.SourceDeezer) {
			links += " [deezer]"
		}
		if artist.Linked(models.SourceITunes) {
			links += " [itunes]"
		}
		if !artist.Notify() {
			links += " (muted)"
		}
		r.writePlainln("%s%s", artist.Name(), links)
		if artist.LastReleaseTitle() != "" {
			r.writePlainln("  latest: %s (%s)", artist.LastReleaseTitle(), artist.LastReleaseDate())
		}
	}

	return nil
}

// ArtistImport scans a music folder and tracks each artist directory.
func (r *Runner) ArtistImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: folder path", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	importer := library.NewImporter(r.artists, r.logger)
	result, err := importer.Import(path)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Imported %d artists (%d already tracked, %d skipped)",
		len(result.Added), len(result.Existing), len(result.Skipped))
	for _, name := range result.Added {
		r.writePlainln("  + %s", name)
	}

	return nil
}

// ArtistMute toggles notifications for an artist.
func (r *Runner) ArtistMute(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artist, err := r.artists.GetByName(name)
	if err != nil {
		return err
	}

	artist.SetNotify(!artist.Notify())
	if err := r.artists.Update(artist); err != nil {
		return err
	}

	state := "muted"
	if artist.Notify() {
		state = "unmuted"
	}
	return r.writePlainln("✓ %s %s", state, name)
}
