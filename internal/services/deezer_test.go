package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/shared"
)

func newDeezerTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func TestDeezerSearchArtist(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/search/artist": `{"data":[
			{"id":42,"name":"Arca","picture_xl":"https://cdn.example/arca.jpg"},
			{"id":43,"name":"arca tribute band"}
		],"total":2}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	results, err := svc.SearchArtist(context.Background(), "Arca")
	if err != nil {
		t.Fatalf("SearchArtist failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "42" || results[0].Name != "Arca" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[0].ArtworkURL != "https://cdn.example/arca.jpg" {
		t.Errorf("unexpected artwork URL: %s", results[0].ArtworkURL)
	}
}

func TestDeezerArtistReleases(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/artist/42/albums": `{"data":[
			{"id":100,"title":"KiCk i","cover_xl":"https://cdn.example/kick.jpg","release_date":"2020-06-25","record_type":"album"},
			{"id":101,"title":"KicK ii - Single","release_date":"2021-11-30","record_type":"single"}
		],"total":2}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	releases, err := svc.ArtistReleases(context.Background(), "42", 0)
	if err != nil {
		t.Fatalf("ArtistReleases failed: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(releases))
	}

	first := releases[0]
	if first.SourceID != "100" || first.Source != models.SourceDeezer {
		t.Errorf("unexpected release identity: %+v", first)
	}
	if first.Kind != models.TypeAlbum {
		t.Errorf("expected Album kind, got %s", first.Kind)
	}
	if releases[1].Kind != models.TypeSingle {
		t.Errorf("expected Single kind, got %s", releases[1].Kind)
	}
}

func TestDeezerInBandError(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/artist/9999/albums": `{"error":{"type":"DataException","message":"no data","code":800}}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	_, err := svc.ArtistReleases(context.Background(), "9999", 0)
	if !errors.Is(err, shared.ErrAPIRequest) {
		t.Errorf("expected ErrAPIRequest, got %v", err)
	}
}

func TestDeezerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	_, err := svc.SearchArtist(context.Background(), "Arca")
	if !errors.Is(err, shared.ErrAPIRequest) {
		t.Errorf("expected ErrAPIRequest, got %v", err)
	}
}

func TestDeezerTracklist(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/album/100/tracks": `{"data":[
			{"id":1,"title":"Nonbinary","duration":218},
			{"id":2,"title":"Time","duration":195}
		],"total":2}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	tracks, err := svc.Tracklist(context.Background(), "100")
	if err != nil {
		t.Fatalf("Tracklist failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].Title != "Nonbinary" || tracks[0].DurationSec != 218 {
		t.Errorf("unexpected track: %+v", tracks[0])
	}
}

func TestAllReleasesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("index") {
		case "0":
			w.Write([]byte(`{"data":[{"id":1,"title":"a","release_date":"2020-01-01","record_type":"album"}],"total":2}`))
		case "1":
			w.Write([]byte(`{"data":[{"id":2,"title":"b","release_date":"2021-01-01","record_type":"album"}],"total":2}`))
		default:
			w.Write([]byte(`{"data":[],"total":2}`))
		}
	}))
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	all, err := AllReleases(context.Background(), svc, "42")
	if err != nil {
		t.Fatalf("AllReleases failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 releases across pages, got %d", len(all))
	}
	if all[0].SourceID != "1" || all[1].SourceID != "2" {
		t.Errorf("unexpected page order: %+v", all)
	}
}

func TestDeezerArtistDetails(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/artist/42": `{"id":42,"name":"Arca","picture_xl":"https://cdn.example/arca.jpg","nb_album":9,"nb_fan":250000}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	artist, err := svc.ArtistDetails(context.Background(), "42")
	if err != nil {
		t.Fatalf("ArtistDetails failed: %v", err)
	}
	if artist.Name != "Arca" || artist.NbAlbum != 9 || artist.NbFan != 250000 {
		t.Errorf("unexpected details: %+v", artist)
	}
}

func TestDeezerAlbumDetails(t *testing.T) {
	server := newDeezerTestServer(t, map[string]string{
		"/album/100": `{"id":100,"title":"KiCk i","cover_xl":"https://cdn.example/kick.jpg","release_date":"2020-06-25","record_type":"album","artist":{"id":42,"name":"Arca"}}`,
	})
	defer server.Close()

	svc := NewDeezerService(server.URL, server.Client(), 1000)

	release, err := svc.AlbumDetails(context.Background(), "100")
	if err != nil {
		t.Fatalf("AlbumDetails failed: %v", err)
	}
	if release.SourceID != "100" || release.Title != "KiCk i" || release.ArtistName != "Arca" {
		t.Errorf("unexpected release: %+v", release)
	}
	if release.Kind != models.TypeAlbum || release.Date != "2020-06-25" {
		t.Errorf("unexpected classification: %+v", release)
	}
}
