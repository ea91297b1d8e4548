package main

import (
	"context"
	"time"

	"github.com/desertthunder/herald/internal/resolver"
	"github.com/urfave/cli/v3"
)

// CacheSweep prunes expired rows from the dns cache, release cache and
// notification ledger.
func (r *Runner) CacheSweep(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	dnsRemoved, err := r.resolver.Sweep(resolver.DefaultRetention)
	if err != nil {
		return err
	}

	retention := time.Duration(cmd.Int("days")) * 24 * time.Hour
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-retention)

	releasesRemoved, err := r.releaseCache.PruneOlderThan(cutoff)
	if err != nil {
		return err
	}
	ledgerRemoved, err := r.ledger.PruneOlderThan(cutoff)
	if err != nil {
		return err
	}

	return r.writePlainln("✓ Swept caches: %d dns entries, %d releases, %d ledger rows",
		dnsRemoved, releasesRemoved, ledgerRemoved)
}
