// Package resolver caches hostname lookups in sqlite and retries failed
// resolutions with exponential backoff. A resolver-backed transport makes
// every outbound API call go through the cache.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

const (
	// DefaultFreshness is how long a cached resolution is served without
	// consulting the network.
	DefaultFreshness = 24 * time.Hour

	// DefaultRetention is how long stale entries are kept as a fallback for
	// failed resolutions before Sweep removes them.
	DefaultRetention = 7 * 24 * time.Hour

	maxAttempts     = 5
	initialInterval = 500 * time.Millisecond
	maxInterval     = 60 * time.Second
)

// Store is the persistence surface the resolver needs.
type Store interface {
	Upsert(entry models.DNSEntry) error
	Get(hostname string) (*models.DNSEntry, error)
	PruneOlderThan(cutoff time.Time) (int64, error)
}

// ResolutionError reports a hostname that could not be resolved after all
// retry attempts, with no cached fallback available.
type ResolutionError struct {
	Hostname string
	Attempts int
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s failed after %d attempts: %v", e.Hostname, e.Attempts, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{shared.ErrResolution, e.Err}
}

// LookupFunc resolves a hostname to one or more addresses.
type LookupFunc func(ctx context.Context, hostname string) ([]string, error)

// NameResolver resolves hostnames through a persistent cache.
type NameResolver struct {
	store     Store
	logger    *log.Logger
	lookup    LookupFunc
	freshness time.Duration
	interval  time.Duration
	now       func() time.Time
}

// NewNameResolver creates a resolver backed by the given store. A nil logger
// falls back to the shared default.
func NewNameResolver(store Store, logger *log.Logger) *NameResolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &NameResolver{
		store:  store,
		logger: logger,
		lookup: func(ctx context.Context, hostname string) ([]string, error) {
			return net.DefaultResolver.LookupHost(ctx, hostname)
		},
		freshness: DefaultFreshness,
		interval:  initialInterval,
		now:       time.Now,
	}
}

// Resolve returns all addresses for the hostname. Fresh cache entries are
// served directly; otherwise the network is consulted with exponential
// backoff, and a stale entry still within retention serves as the fallback
// when every attempt fails. Only the first address is cached.
func (r *NameResolver) Resolve(ctx context.Context, hostname string) ([]string, error) {
	cached, err := r.store.Get(hostname)
	if err != nil {
		r.logger.Warn("dns cache read failed", "hostname", hostname, "error", err)
	}
	if cached != nil && r.now().Sub(cached.ResolvedAt) < r.freshness {
		return []string{cached.Address}, nil
	}

	addrs, attempts, resolveErr := r.resolveWithRetry(ctx, hostname)
	if resolveErr == nil {
		entry := models.DNSEntry{Hostname: hostname, Address: addrs[0], ResolvedAt: r.now()}
		if err := r.store.Upsert(entry); err != nil {
			r.logger.Warn("dns cache write failed", "hostname", hostname, "error", err)
		}
		return addrs, nil
	}

	if cached != nil {
		r.logger.Warn("resolution failed, serving stale cache entry",
			"hostname", hostname, "age", r.now().Sub(cached.ResolvedAt), "error", resolveErr)
		return []string{cached.Address}, nil
	}

	return nil, &ResolutionError{Hostname: hostname, Attempts: attempts, Err: resolveErr}
}

func (r *NameResolver) resolveWithRetry(ctx context.Context, hostname string) ([]string, int, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.interval
	bo.Multiplier = 2
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0

	var resolved []string
	attempts := 0

	operation := func() error {
		attempts++
		addrs, err := r.lookup(ctx, hostname)
		if err == nil && len(addrs) == 0 {
			// An empty answer counts as a failed attempt.
			err = fmt.Errorf("no addresses for %s", hostname)
		}
		if err != nil {
			if attempts >= maxAttempts {
				return backoff.Permanent(err)
			}
			r.logger.Debug("resolution attempt failed", "hostname", hostname, "attempt", attempts, "error", err)
			return err
		}
		resolved = addrs
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))
	return resolved, attempts, err
}

// Sweep removes cache entries past the retention window and returns the
// number removed.
func (r *NameResolver) Sweep(retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return r.store.PruneOlderThan(r.now().Add(-retention))
}

// NewHTTPClient returns a client whose connections resolve hostnames through
// the resolver. Literal IP addresses bypass the cache.
func NewHTTPClient(r *NameResolver, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			if net.ParseIP(host) == nil {
				addrs, err := r.Resolve(ctx, host)
				if err != nil {
					return nil, err
				}
				host = addrs[0]
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(host, port))
		},
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{Transport: transport, Timeout: timeout}
}

// IsResolutionFailure reports whether err stems from a failed hostname
// resolution.
func IsResolutionFailure(err error) bool {
	return errors.Is(err, shared.ErrResolution)
}
