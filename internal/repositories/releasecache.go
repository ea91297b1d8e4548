package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/herald/internal/models"
)

// ReleaseCacheRepository caches fetched releases keyed by (source, source id).
//
// Releases are immutable once fetched, so a replace on conflict only ever
// refreshes the fetched-at timestamp and artwork URL.
type ReleaseCacheRepository struct {
	db *sql.DB
}

// NewReleaseCacheRepository creates a new ReleaseCacheRepository with the given database connection
func NewReleaseCacheRepository(db *sql.DB) *ReleaseCacheRepository {
	return &ReleaseCacheRepository{db: db}
}

// Put caches a release for an artist.
func (r *ReleaseCacheRepository) Put(artistID string, release models.Release) error {
	query := `
		INSERT OR REPLACE INTO release_cache (source, source_id, artist_id, title, artist_name, artwork_url, release_date, kind, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		string(release.Source),
		release.SourceID,
		artistID,
		release.Title,
		release.ArtistName,
		release.ArtworkURL,
		release.Date,
		string(release.Kind),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache release: %w", err)
	}

	return nil
}

// ByArtist returns all cached releases for an artist, newest first.
func (r *ReleaseCacheRepository) ByArtist(artistID string) ([]models.Release, error) {
	query := `
		SELECT source, source_id, title, artist_name, artwork_url, release_date, kind
		FROM release_cache
		WHERE artist_id = ?
		ORDER BY release_date DESC
	`

	rows, err := r.db.Query(query, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query release cache: %w", err)
	}
	defer rows.Close()

	var releases []models.Release
	for rows.Next() {
		var rel models.Release
		var source, kind string
		if err := rows.Scan(&source, &rel.SourceID, &rel.Title, &rel.ArtistName, &rel.ArtworkURL, &rel.Date, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		rel.Source = models.Source(source)
		rel.Kind = models.ReleaseType(kind)
		releases = append(releases, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return releases, nil
}

// PruneOlderThan removes cache rows fetched before the cutoff.
func (r *ReleaseCacheRepository) PruneOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM release_cache WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune release cache: %w", err)
	}
	return result.RowsAffected()
}
