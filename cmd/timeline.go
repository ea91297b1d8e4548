package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/herald/internal/formatter"
	"github.com/desertthunder/herald/internal/models"
	"github.com/urfave/cli/v3"
)

// Timeline prints the merged release timeline for all tracked artists, or a
// single artist when --artist is given.
func (r *Runner) Timeline(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var artists []*models.Artist
	if name := cmd.String("artist"); name != "" {
		artist, err := r.artists.GetByName(name)
		if err != nil {
			return err
		}
		artists = []*models.Artist{artist}
	} else {
		if artists, err = r.artists.List(map[string]any{}); err != nil {
			return err
		}
	}

	entries := r.newMerger().Merge(ctx, artists)

	if limit := int(cmd.Int("limit")); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	var out io.Writer = r.output
	if path := cmd.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
		defer r.writePlainln("✓ Timeline written to %s", path)
	}

	return formatter.Write(out, format, entries)
}
