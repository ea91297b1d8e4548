package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/herald/internal/models"
)

// LedgerRepository stores notification records.
//
// At most one record may exist per hash; Record is an insert-if-absent so
// concurrent writers racing on the same hash still yield a single row.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the given database connection
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Record writes a ledger entry. Writing an existing hash is a no-op.
func (r *LedgerRepository) Record(rec models.NotificationRecord) error {
	query := `
		INSERT OR IGNORE INTO notifications (hash, artist_id, release_date, sent_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, rec.Hash, rec.ArtistID, rec.ReleaseDate, rec.SentAt)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	return nil
}

// Exists reports whether a notification with the given hash was already sent.
func (r *LedgerRepository) Exists(hash string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM notifications WHERE hash = ?)", hash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification ledger: %w", err)
	}
	return exists, nil
}

// PruneOlderThan removes ledger entries sent before the cutoff.
// Pruning is safe: a re-notification would require the release to pass the
// age gate again, which a pruned-old release cannot.
func (r *LedgerRepository) PruneOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM notifications WHERE sent_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}
	return result.RowsAffected()
}
