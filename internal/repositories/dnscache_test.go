package repositories

import (
	"testing"
	"time"

	"github.com/desertthunder/herald/internal/models"
	tu "github.com/desertthunder/herald/internal/testing"
)

func TestDNSRepository(t *testing.T) {
	t.Run("Get on empty cache", func(t *testing.T) {
		repo := NewDNSRepository(tu.NewTestDB(t))

		entry, err := repo.Get("api.deezer.com")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if entry != nil {
			t.Errorf("expected nil for cache miss, got %+v", entry)
		}
	})

	t.Run("Upsert replaces previous resolution", func(t *testing.T) {
		repo := NewDNSRepository(tu.NewTestDB(t))

		first := models.DNSEntry{Hostname: "api.deezer.com", Address: "203.0.113.1", ResolvedAt: time.Now().Add(-time.Hour)}
		if err := repo.Upsert(first); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		second := models.DNSEntry{Hostname: "api.deezer.com", Address: "203.0.113.2", ResolvedAt: time.Now()}
		if err := repo.Upsert(second); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		entry, err := repo.Get("api.deezer.com")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if entry == nil || entry.Address != "203.0.113.2" {
			t.Errorf("expected latest resolution, got %+v", entry)
		}
	})

	t.Run("PruneOlderThan", func(t *testing.T) {
		repo := NewDNSRepository(tu.NewTestDB(t))

		stale := models.DNSEntry{Hostname: "old.example.com", Address: "203.0.113.1", ResolvedAt: time.Now().Add(-10 * 24 * time.Hour)}
		fresh := models.DNSEntry{Hostname: "api.deezer.com", Address: "203.0.113.2", ResolvedAt: time.Now()}
		if err := repo.Upsert(stale); err != nil {
			t.Fatal(err)
		}
		if err := repo.Upsert(fresh); err != nil {
			t.Fatal(err)
		}

		removed, err := repo.PruneOlderThan(time.Now().Add(-7 * 24 * time.Hour))
		if err != nil {
			t.Fatalf("PruneOlderThan failed: %v", err)
		}
		if removed != 1 {
			t.Errorf("expected 1 row pruned, got %d", removed)
		}

		if entry, _ := repo.Get("api.deezer.com"); entry == nil {
			t.Error("fresh entry should survive pruning")
		}
	})
}
