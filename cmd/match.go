package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/herald/internal/shared"
	"github.com/urfave/cli/v3"
)

// MatchRun attempts automatic identity matching for unlinked artists.
func (r *Runner) MatchRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if name := cmd.String("artist"); name != "" {
		artist, err := r.artists.GetByName(name)
		if err != nil {
			return err
		}
		result := r.newMatcher().MatchArtist(ctx, artist)
		return r.printMatchResult(result.Name, result.DeezerLinked, result.ITunesLinked, result.Skipped)
	}

	artists, err := r.artists.List(criteria)
	if err != nil {
		return err
	}

	matcher := r.newMatcher()
	linked := 0
	for _, artist := range artists {
		result := matcher.MatchArtist(ctx, artist)
		if result.DeezerLinked || result.ITunesLinked {
			linked++
		}
		if err := r.printMatchResult(result.Name, result.DeezerLinked, result.ITunesLinked, result.Skipped); err != nil {
			return err
		}
	}

	return r.writePlainln("✓ Matching complete: %d/%d artists gained links", linked, len(artists))
}

func (r *Runner) printMatchResult(name string, deezer, itunes bool, skipped []string) error {
	switch {
	case deezer && itunes:
		r.writePlainln("%s: linked on both sources", name)
	case deezer:
		r.writePlainln("%s: linked on deezer", name)
	case itunes:
		r.writePlainln("%s: linked on itunes", name)
	case len(skipped) == 0:
		r.writePlainln("%s: already linked", name)
	}
	for _, reason := range skipped {
		if err := r.writePlainln("%s: %s", name, reason); err != nil {
			return err
		}
	}
	return nil
}

// MatchSearch lists ranked cross-source candidates for a manual decision.
func (r *Runner) MatchSearch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("artist")
	if name == "" {
		return fmt.Errorf("%w: --artist", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artist, err := r.artists.GetByName(name)
	if err != nil {
		return err
	}

	candidates, err := r.newMatcher().SearchCandidates(ctx, artist)
	if err != nil {
		return fmt.Errorf("candidate search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(candidates, cmd.Bool("pretty"))
	}

	if len(candidates) == 0 {
		return r.writePlainln("no itunes candidates for %s", name)
	}

	for _, candidate := range candidates {
		r.writePlainln("%s (id %s)", candidate.Name, candidate.ID)
		if candidate.LatestTitle != "" {
			r.writePlainln("  latest: %s (%s)", candidate.LatestTitle, candidate.LatestDate)
		}
		r.writePlainln("  shared releases: %d", candidate.Overlap)
	}

	return r.writePlainln("link one with 'herald match link --artist %q --id <id>'", name)
}

// MatchLink links an artist to a chosen iTunes identity.
func (r *Runner) MatchLink(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("artist")
	id := cmd.String("id")
	if name == "" || id == "" {
		return fmt.Errorf("%w: --artist and --id", shared.ErrMissingArgument)
	}
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	artist, err := r.artists.GetByName(name)
	if err != nil {
		return err
	}

	if cmd.Bool("clear") {
		artist.ClearITunesID()
	}
	if err := r.newMatcher().Link(artist, id); err != nil {
		return fmt.Errorf("failed to link: %w", err)
	}

	return r.writePlainln("✓ Linked %s to itunes identity %s", name, id)
}
