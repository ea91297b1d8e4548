package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

// ArtistRepository implements models.Repository[*models.Artist].
//
// Handles saved-artist CRUD with soft delete support. Source identifiers are
// nullable columns; the set-once invariant lives on the model, the repository
// persists whatever state the model holds.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.Artist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.Artist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	artist.SetSequence(sequence)
	artist.SetID(shared.GenerateID())

	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, name, deezer_id, itunes_id, last_release_title, last_release_date, notify, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		artist.ID(),
		artist.Sequence(),
		artist.Name(),
		nullable(artist.DeezerID()),
		nullable(artist.ITunesID()),
		artist.LastReleaseTitle(),
		artist.LastReleaseDate(),
		artist.Notify(),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID, excluding soft-deleted artists
func (r *ArtistRepository) Get(id string) (*models.Artist, error) {
	query := selectArtist + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves an artist by exact display name
func (r *ArtistRepository) GetByName(name string) (*models.Artist, error) {
	query := selectArtist + ` WHERE name = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, name))
}

// Update persists the artist's mutable fields (links, last release, notify flag)
func (r *ArtistRepository) Update(artist *models.Artist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, deezer_id = ?, itunes_id = ?, last_release_title = ?, last_release_date = ?, notify = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		artist.Name(),
		nullable(artist.DeezerID()),
		nullable(artist.ITunesID()),
		artist.LastReleaseTitle(),
		artist.LastReleaseDate(),
		artist.Notify(),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found or already deleted: %s", artist.ID())
	}

	return nil
}

// Delete soft-deletes an artist by ID
func (r *ArtistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE artists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all artists matching the given criteria, excluding soft-deleted artists.
//
// Supported criteria: "notify" (bool), "unlinked_itunes" (bool).
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.Artist, error) {
	query := selectArtist + ` WHERE deleted_at IS NULL`

	args := []any{}

	if notify, ok := criteria["notify"].(bool); ok {
		query += " AND notify = ?"
		args = append(args, notify)
	}

	if unlinked, ok := criteria["unlinked_itunes"].(bool); ok && unlinked {
		query += " AND itunes_id IS NULL"
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist, err := scanArtistRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

const selectArtist = `
	SELECT id, sequence, name, deezer_id, itunes_id, last_release_title, last_release_date, notify, created_at, updated_at, deleted_at
	FROM artists
`

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type artistScanner interface {
	Scan(dest ...any) error
}

func scanArtist(s artistScanner) (*models.Artist, error) {
	var (
		id        string
		sequence  int
		name      string
		deezerID  sql.NullString
		itunesID  sql.NullString
		lastTitle string
		lastDate  string
		notify    bool
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := s.Scan(&id, &sequence, &name, &deezerID, &itunesID, &lastTitle, &lastDate, &notify, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	artist := models.NewArtist(sequence, name)
	artist.SetID(id)
	artist.Restore(deezerID.String, itunesID.String, lastTitle, lastDate, notify, createdAt, updatedAt)
	if deletedAt.Valid {
		artist.SetDeletedAt(&deletedAt.Time)
	}

	return artist, nil
}

func (r *ArtistRepository) scanOne(row *sql.Row) (*models.Artist, error) {
	artist, err := scanArtist(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	return artist, nil
}

func scanArtistRow(rows *sql.Rows) (*models.Artist, error) {
	artist, err := scanArtist(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}
	return artist, nil
}
