package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/herald/internal/models"
)

// DNSRepository stores hostname resolution results.
//
// One row per hostname, latest resolution wins.
type DNSRepository struct {
	db *sql.DB
}

// NewDNSRepository creates a new DNSRepository with the given database connection
func NewDNSRepository(db *sql.DB) *DNSRepository {
	return &DNSRepository{db: db}
}

// Upsert stores or refreshes the entry for a hostname.
func (r *DNSRepository) Upsert(entry models.DNSEntry) error {
	query := `
		INSERT INTO dns_cache (hostname, address, resolved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(hostname) DO UPDATE SET address = excluded.address, resolved_at = excluded.resolved_at
	`

	_, err := r.db.Exec(query, entry.Hostname, entry.Address, entry.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert dns entry: %w", err)
	}

	return nil
}

// Get returns the cached entry for a hostname, or nil when none exists.
func (r *DNSRepository) Get(hostname string) (*models.DNSEntry, error) {
	var entry models.DNSEntry
	err := r.db.QueryRow(
		"SELECT hostname, address, resolved_at FROM dns_cache WHERE hostname = ?",
		hostname,
	).Scan(&entry.Hostname, &entry.Address, &entry.ResolvedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dns cache: %w", err)
	}
	return &entry, nil
}

// PruneOlderThan removes entries resolved before the cutoff.
func (r *DNSRepository) PruneOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM dns_cache WHERE resolved_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune dns cache: %w", err)
	}
	return result.RowsAffected()
}
