package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Source identifies which catalog service a release or identifier came from.
type Source string

const (
	SourceDeezer Source = "deezer"
	SourceITunes Source = "itunes"
)

// ReleaseType is the classified kind of a release.
type ReleaseType string

const (
	TypeAlbum   ReleaseType = "Album"
	TypeSingle  ReleaseType = "Single"
	TypeEP      ReleaseType = "EP"
	TypeRelease ReleaseType = "Release"
)

// ClassifyReleaseType maps a source-provided type string onto a ReleaseType.
// Anything unrecognized classifies as the generic "Release".
func ClassifyReleaseType(raw string) ReleaseType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "album":
		return TypeAlbum
	case "single":
		return TypeSingle
	case "ep":
		return TypeEP
	default:
		return TypeRelease
	}
}

// Release represents a unit of published work fetched from a catalog service.
// Immutable once fetched.
type Release struct {
	SourceID   string      `json:"source_id"`
	Title      string      `json:"title"`
	ArtistName string      `json:"artist"`
	ArtworkURL string      `json:"artwork_url,omitempty"`
	Date       string      `json:"date"` // calendar date, YYYY-MM-DD
	Source     Source      `json:"source"`
	Kind       ReleaseType `json:"kind"`
}

// ParsedDate parses the release date. The second return is false when the
// date is missing or unparsable; callers treat such releases as oldest.
func (r Release) ParsedDate() (time.Time, bool) {
	if len(r.Date) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", r.Date[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NotificationRecord is a ledger entry recording that a notification for a
// given (artist, release) pair was dispatched. Never updated once written.
type NotificationRecord struct {
	Hash        string    `json:"hash"`
	ArtistID    string    `json:"artist_id"`
	ReleaseDate string    `json:"release_date"`
	SentAt      time.Time `json:"sent_at"`
}

// DNSEntry caches a successful hostname resolution.
type DNSEntry struct {
	Hostname   string    `json:"hostname"`
	Address    string    `json:"address"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Artist is a saved artist the user tracks. The internal id is stable once
// created; source identifiers are set at most once per source unless
// explicitly cleared by user action.
type Artist struct {
	id               string
	sequence         int
	name             string
	deezerID         string
	itunesID         string
	lastReleaseTitle string
	lastReleaseDate  string
	notify           bool
	createdAt        time.Time
	updatedAt        time.Time
	deletedAt        *time.Time
}

// NewArtist creates an unsaved artist with the given sequence and display name.
func NewArtist(sequence int, name string) *Artist {
	now := time.Now()
	return &Artist{
		sequence:  sequence,
		name:      name,
		notify:    true,
		createdAt: now,
		updatedAt: now,
	}
}

func (a *Artist) ID() string               { return a.id }
func (a *Artist) Sequence() int            { return a.sequence }
func (a *Artist) Name() string             { return a.name }
func (a *Artist) DeezerID() string         { return a.deezerID }
func (a *Artist) ITunesID() string         { return a.itunesID }
func (a *Artist) LastReleaseTitle() string { return a.lastReleaseTitle }
func (a *Artist) LastReleaseDate() string  { return a.lastReleaseDate }
func (a *Artist) Notify() bool             { return a.notify }
func (a *Artist) CreatedAt() time.Time     { return a.createdAt }
func (a *Artist) UpdatedAt() time.Time     { return a.updatedAt }
func (a *Artist) DeletedAt() *time.Time    { return a.deletedAt }

func (a *Artist) SetID(id string)             { a.id = id }
func (a *Artist) SetNotify(v bool)            { a.notify = v }
func (a *Artist) SetUpdatedAt(t time.Time)    { a.updatedAt = t }
func (a *Artist) SetDeletedAt(t *time.Time)   { a.deletedAt = t }
func (a *Artist) SetName(name string)         { a.name = name }
func (a *Artist) SetSequence(seq int)         { a.sequence = seq }
func (a *Artist) Linked(source Source) bool {
	switch source {
	case SourceDeezer:
		return a.deezerID != ""
	case SourceITunes:
		return a.itunesID != ""
	}
	return false
}

// SetDeezerID links the Deezer identifier. Returns false without mutating
// when a different identifier is already linked (set-once invariant).
func (a *Artist) SetDeezerID(id string) bool {
	if a.deezerID != "" && a.deezerID != id {
		return false
	}
	a.deezerID = id
	return true
}

// SetITunesID links the iTunes identifier. Returns false without mutating
// when a different identifier is already linked (set-once invariant).
func (a *Artist) SetITunesID(id string) bool {
	if a.itunesID != "" && a.itunesID != id {
		return false
	}
	a.itunesID = id
	return true
}

// ClearITunesID removes the iTunes link. Explicit user action only.
func (a *Artist) ClearITunesID() { a.itunesID = "" }

// ClearDeezerID removes the Deezer link. Explicit user action only.
func (a *Artist) ClearDeezerID() { a.deezerID = "" }

// SetLastRelease records the most recent known release for the artist.
func (a *Artist) SetLastRelease(title, date string) {
	a.lastReleaseTitle = title
	a.lastReleaseDate = date
}

// Restore hydrates persisted state that is not part of construction.
func (a *Artist) Restore(deezerID, itunesID, lastTitle, lastDate string, notify bool, createdAt, updatedAt time.Time) {
	a.deezerID = deezerID
	a.itunesID = itunesID
	a.lastReleaseTitle = lastTitle
	a.lastReleaseDate = lastDate
	a.notify = notify
	a.createdAt = createdAt
	a.updatedAt = updatedAt
}

// Validate checks the artist's data.
func (a *Artist) Validate() error {
	if a.name == "" {
		return fmt.Errorf("artist name is required")
	}
	return nil
}
