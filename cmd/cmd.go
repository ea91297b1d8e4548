// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file, database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// artistCommand handles tracked-artist management
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "artist",
		Aliases: []string{"artists", "a"},
		Usage:   "Manage tracked artists",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Track a new artist by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "mute",
						Usage: "Track without release notifications",
					},
					&cli.BoolFlag{
						Name:  "no-match",
						Usage: "Skip automatic identity matching",
					},
				},
				Action: r.ArtistAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Stop tracking an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ArtistRemove,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tracked artists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ArtistList,
			},
			{
				Name:  "show",
				Usage: "Show catalog details for a tracked artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ArtistShow,
			},
			{
				Name:  "import",
				Usage: "Track artists from a music folder's subdirectories",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.ArtistImport,
			},
			{
				Name:  "mute",
				Usage: "Toggle notifications for an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ArtistMute,
			},
		},
	}
}

// matchCommand handles cross-source identity matching
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Link artists to their catalog identities",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Attempt automatic matching for unlinked artists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Match a single artist by name",
					},
				},
				Action: r.MatchRun,
			},
			{
				Name:  "search",
				Usage: "List ranked iTunes candidates for an artist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name to search for",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.MatchSearch,
			},
			{
				Name:  "link",
				Usage: "Manually link an artist to an iTunes identity",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "iTunes artist identifier",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Replace an existing link",
					},
				},
				Action: r.MatchLink,
			},
		},
	}
}

// timelineCommand renders the merged release timeline
func timelineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "timeline",
		Aliases: []string{"releases"},
		Usage:   "Show the merged release timeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Limit to a single artist",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, csv, json)",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of releases to show",
			},
		},
		Action: r.Timeline,
	}
}

// pollCommand runs a single release check cycle
func pollCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "poll",
		Usage:  "Check tracked artists for new releases once",
		Action: r.Poll,
	}
}

// daemonCommand polls on an interval until interrupted
func daemonCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Poll for new releases on the configured interval",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "interval",
				Usage: "Override polling interval in minutes",
			},
		},
		Action: r.Daemon,
	}
}

// cacheCommand handles cache maintenance
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache maintenance",
		Commands: []*cli.Command{
			{
				Name:  "sweep",
				Usage: "Prune expired dns, release and ledger rows",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Retention window in days for releases and ledger rows",
						Value: 90,
					},
				},
				Action: r.CacheSweep,
			},
		},
	}
}

// configCommand prints the effective configuration
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.ConfigShow,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for artists and releases",
		Action:  r.TUI,
	}
}
