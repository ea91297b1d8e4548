package library

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

type fakeArtistStore struct {
	existing map[string]bool
	created  []string
}

func (f *fakeArtistStore) Create(artist *models.Artist) error {
	f.created = append(f.created, artist.Name())
	return nil
}

func (f *fakeArtistStore) GetByName(name string) (*models.Artist, error) {
	if f.existing[name] {
		artist := models.NewArtist(1, name)
		artist.SetID("existing-" + name)
		return artist, nil
	}
	return nil, shared.ErrArtistNotFound
}

func musicFolder(t *testing.T, artists ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, artist := range artists {
		if err := os.Mkdir(filepath.Join(dir, artist), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScanFolder(t *testing.T) {
	dir := musicFolder(t, "Arca", "Björk", ".thumbnails")
	if err := os.WriteFile(filepath.Join(dir, "playlist.m3u"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	want := []string{"Arca", "Björk"}
	if !slices.Equal(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestScanFolderMissingPath(t *testing.T) {
	if _, err := ScanFolder("/nonexistent/music"); err == nil {
		t.Error("expected error for missing folder")
	}
}

func TestImportSkipsExistingArtists(t *testing.T) {
	dir := musicFolder(t, "Arca", "Björk", "Caroline Polachek")
	store := &fakeArtistStore{existing: map[string]bool{"Björk": true}}

	importer := NewImporter(store, shared.NewLogger(nil))
	result, err := importer.Import(dir)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if !slices.Equal(result.Added, []string{"Arca", "Caroline Polachek"}) {
		t.Errorf("unexpected added: %v", result.Added)
	}
	if !slices.Equal(result.Existing, []string{"Björk"}) {
		t.Errorf("unexpected existing: %v", result.Existing)
	}
	if !slices.Equal(store.created, []string{"Arca", "Caroline Polachek"}) {
		t.Errorf("unexpected creates: %v", store.created)
	}
}
