// Package library imports artists from a local music folder. The first level
// of subdirectories is treated as artist names, matching the artist/album
// layout most library managers produce.
package library

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

// ArtistCreator persists imported artists.
type ArtistCreator interface {
	Create(artist *models.Artist) error
	GetByName(name string) (*models.Artist, error)
}

// ImportResult summarizes a folder scan.
type ImportResult struct {
	Added    []string
	Existing []string
	Skipped  []string
}

// Importer scans music folders for artist names.
type Importer struct {
	store  ArtistCreator
	logger *log.Logger
}

// NewImporter creates an importer backed by the given artist store.
func NewImporter(store ArtistCreator, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{store: store, logger: logger}
}

// ScanFolder lists candidate artist names from the folder's immediate
// subdirectories, sorted. Hidden directories and loose files are ignored.
func ScanFolder(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read music folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// Import scans the folder and saves each new artist name. Names already
// tracked are reported, not duplicated.
func (i *Importer) Import(path string) (ImportResult, error) {
	names, err := ScanFolder(path)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, name := range names {
		existing, err := i.store.GetByName(name)
		if err != nil && !errors.Is(err, shared.ErrArtistNotFound) {
			i.logger.Warn("artist lookup failed", "name", name, "error", err)
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if existing != nil {
			result.Existing = append(result.Existing, name)
			continue
		}

		artist := models.NewArtist(0, name)
		if err := i.store.Create(artist); err != nil {
			i.logger.Warn("failed to save imported artist", "name", name, "error", err)
			result.Skipped = append(result.Skipped, name)
			continue
		}
		result.Added = append(result.Added, name)
	}

	i.logger.Info("library import complete",
		"added", len(result.Added), "existing", len(result.Existing), "skipped", len(result.Skipped))

	return result, nil
}
