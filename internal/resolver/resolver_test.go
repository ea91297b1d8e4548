package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

type memoryStore struct {
	entries map[string]models.DNSEntry
	pruned  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]models.DNSEntry)}
}

func (s *memoryStore) Upsert(entry models.DNSEntry) error {
	s.entries[entry.Hostname] = entry
	return nil
}

func (s *memoryStore) Get(hostname string) (*models.DNSEntry, error) {
	entry, ok := s.entries[hostname]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *memoryStore) PruneOlderThan(cutoff time.Time) (int64, error) {
	var removed int64
	for host, entry := range s.entries {
		if entry.ResolvedAt.Before(cutoff) {
			delete(s.entries, host)
			removed++
		}
	}
	s.pruned = removed
	return removed, nil
}

func newTestResolver(store Store, lookup LookupFunc) *NameResolver {
	r := NewNameResolver(store, shared.NewLogger(nil))
	r.lookup = lookup
	r.interval = time.Millisecond
	return r
}

func TestResolveFreshCacheHit(t *testing.T) {
	store := newMemoryStore()
	store.Upsert(models.DNSEntry{
		Hostname:   "api.example.com",
		Address:    "203.0.113.7",
		ResolvedAt: time.Now().Add(-time.Hour),
	})

	lookups := 0
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		lookups++
		return []string{"203.0.113.99"}, nil
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "203.0.113.7" {
		t.Errorf("expected cached address, got %v", addrs)
	}
	if lookups != 0 {
		t.Errorf("expected no network lookups for fresh entry, got %d", lookups)
	}
}

func TestResolveStaleEntryRefreshed(t *testing.T) {
	store := newMemoryStore()
	store.Upsert(models.DNSEntry{
		Hostname:   "api.example.com",
		Address:    "203.0.113.7",
		ResolvedAt: time.Now().Add(-48 * time.Hour),
	})

	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		return []string{"203.0.113.99"}, nil
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "203.0.113.99" {
		t.Errorf("expected refreshed address, got %v", addrs)
	}

	entry, _ := store.Get("api.example.com")
	if entry.Address != "203.0.113.99" {
		t.Errorf("expected cache updated, got %s", entry.Address)
	}
}

func TestResolveStaleFallbackOnFailure(t *testing.T) {
	store := newMemoryStore()
	store.Upsert(models.DNSEntry{
		Hostname:   "api.example.com",
		Address:    "203.0.113.7",
		ResolvedAt: time.Now().Add(-3 * 24 * time.Hour),
	})

	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		return nil, errors.New("servfail")
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "203.0.113.7" {
		t.Errorf("expected stale address, got %v", addrs)
	}
}

func TestResolveExhaustsAttempts(t *testing.T) {
	store := newMemoryStore()

	lookups := 0
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		lookups++
		return nil, errors.New("servfail")
	})

	_, err := r.Resolve(context.Background(), "api.example.com")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, shared.ErrResolution) {
		t.Errorf("expected ErrResolution, got %v", err)
	}
	if lookups != 5 {
		t.Errorf("expected 5 attempts, got %d", lookups)
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatal("expected ResolutionError")
	}
	if resErr.Hostname != "api.example.com" || resErr.Attempts != 5 {
		t.Errorf("unexpected error detail: %+v", resErr)
	}
}

func TestResolveRecoversMidRetry(t *testing.T) {
	store := newMemoryStore()

	lookups := 0
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		lookups++
		if lookups < 3 {
			return nil, errors.New("servfail")
		}
		return []string{"203.0.113.50"}, nil
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "203.0.113.50" {
		t.Errorf("unexpected addresses: %v", addrs)
	}
	if lookups != 3 {
		t.Errorf("expected 3 attempts, got %d", lookups)
	}
}

func TestResolveReturnsAllAddresses(t *testing.T) {
	store := newMemoryStore()

	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		return []string{"203.0.113.10", "203.0.113.11"}, nil
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(addrs) != 2 || addrs[0] != "203.0.113.10" || addrs[1] != "203.0.113.11" {
		t.Errorf("expected every resolved address, got %v", addrs)
	}

	entry, _ := store.Get("api.example.com")
	if entry == nil || entry.Address != "203.0.113.10" {
		t.Errorf("expected first address cached, got %+v", entry)
	}
}

func TestResolveEmptyAnswerRetries(t *testing.T) {
	store := newMemoryStore()

	lookups := 0
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		lookups++
		if lookups < 3 {
			return nil, nil
		}
		return []string{"203.0.113.60"}, nil
	})

	addrs, err := r.Resolve(context.Background(), "api.example.com")
	if err != nil {
		t.Fatalf("empty answers should be retried, got %v", err)
	}
	if len(addrs) != 1 || addrs[0] != "203.0.113.60" {
		t.Errorf("unexpected addresses: %v", addrs)
	}
	if lookups != 3 {
		t.Errorf("expected 3 attempts, got %d", lookups)
	}
}

func TestResolveAlwaysEmptyExhaustsAttempts(t *testing.T) {
	store := newMemoryStore()

	lookups := 0
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		lookups++
		return nil, nil
	})

	_, err := r.Resolve(context.Background(), "api.example.com")
	if !errors.Is(err, shared.ErrResolution) {
		t.Fatalf("expected ErrResolution, got %v", err)
	}
	if lookups != 5 {
		t.Errorf("expected 5 attempts, got %d", lookups)
	}
}

func TestResolveContextCancellation(t *testing.T) {
	store := newMemoryStore()

	ctx, cancel := context.WithCancel(context.Background())
	r := newTestResolver(store, func(ctx context.Context, hostname string) ([]string, error) {
		cancel()
		return nil, errors.New("servfail")
	})

	_, err := r.Resolve(ctx, "api.example.com")
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	store := newMemoryStore()
	store.Upsert(models.DNSEntry{
		Hostname:   "old.example.com",
		Address:    "203.0.113.1",
		ResolvedAt: time.Now().Add(-10 * 24 * time.Hour),
	})
	store.Upsert(models.DNSEntry{
		Hostname:   "recent.example.com",
		Address:    "203.0.113.2",
		ResolvedAt: time.Now().Add(-time.Hour),
	})

	r := newTestResolver(store, nil)

	removed, err := r.Sweep(0)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 entry removed, got %d", removed)
	}
	if _, ok := store.entries["recent.example.com"]; !ok {
		t.Error("recent entry should survive the sweep")
	}
}
