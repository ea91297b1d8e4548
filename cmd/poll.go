package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/herald/internal/resolver"
	"github.com/desertthunder/herald/internal/shared"
	"github.com/urfave/cli/v3"
)

// resolverNetworkCheck verifies network availability by resolving the Deezer
// API hostname through the cached resolver.
type resolverNetworkCheck struct {
	resolver *resolver.NameResolver
}

func (c *resolverNetworkCheck) Available(ctx context.Context, class shared.NetworkClass) error {
	if c.resolver == nil {
		return nil
	}
	if _, err := c.resolver.Resolve(ctx, "api.deezer.com"); err != nil {
		return fmt.Errorf("network check failed: %w", err)
	}
	return nil
}

// Poll runs a single poll cycle over all tracked artists.
func (r *Runner) Poll(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	summary, err := r.newPoller().Run(ctx)
	if err != nil {
		return fmt.Errorf("poll cycle failed: %w", err)
	}

	return r.writePlainln("✓ Checked %d artists: %d notified, %d skipped, %d failed",
		summary.Checked, summary.Notified, summary.Skipped, summary.Failed)
}

// Daemon polls on the configured interval until interrupted.
func (r *Runner) Daemon(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval := r.config.Polling.Interval()
	if minutes := cmd.Int("interval"); minutes > 0 {
		interval = time.Duration(minutes) * time.Minute
	}

	r.logger.Info("polling daemon started", "interval", interval)

	if removed, err := r.resolver.Sweep(resolver.DefaultRetention); err != nil {
		r.logger.Warn("dns cache sweep failed", "error", err)
	} else if removed > 0 {
		r.logger.Info("swept expired dns entries", "removed", removed)
	}

	p := r.newPoller()
	for {
		if summary, err := p.Run(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			r.logger.Error("poll cycle failed", "error", err)
		} else {
			r.logger.Info("poll cycle finished",
				"checked", summary.Checked, "notified", summary.Notified,
				"skipped", summary.Skipped, "failed", summary.Failed)
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			r.logger.Info("polling daemon stopped")
			return nil
		}
	}

	r.logger.Info("polling daemon stopped")
	return nil
}
