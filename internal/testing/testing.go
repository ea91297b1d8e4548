// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	ServiceName   string
	SearchResults []services.ArtistSummary
	SearchErr     error
	Releases      map[string][]models.Release
	ReleasesErr   error
}

func (m *MockCatalog) Name() string {
	if m.ServiceName == "" {
		return "mock"
	}
	return m.ServiceName
}

func (m *MockCatalog) SearchArtist(ctx context.Context, name string) ([]services.ArtistSummary, error) {
	return m.SearchResults, m.SearchErr
}

func (m *MockCatalog) ArtistReleases(ctx context.Context, artistID string, offset int) ([]models.Release, error) {
	if m.ReleasesErr != nil {
		return nil, m.ReleasesErr
	}
	if offset > 0 {
		return nil, nil
	}
	return m.Releases[artistID], nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// NewTestDB opens an in-memory sqlite database with migrations applied and
// closes it when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}
