package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/herald/internal/models"
)

func TestITunesSearchArtist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("entity"); got != "musicArtist" {
			t.Errorf("expected entity=musicArtist, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultCount":2,"results":[
			{"wrapperType":"artist","artistId":123,"artistName":"Arca"},
			{"wrapperType":"artist","artistId":456,"artistName":"ARCA"}
		]}`))
	}))
	defer server.Close()

	svc := NewITunesService(server.URL, server.Client(), 100000)

	results, err := svc.SearchArtist(context.Background(), "Arca")
	if err != nil {
		t.Fatalf("SearchArtist failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "123" || results[0].Name != "Arca" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestITunesArtistReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultCount":3,"results":[
			{"wrapperType":"artist","artistId":123,"artistName":"Arca"},
			{"wrapperType":"collection","collectionId":900,"collectionName":"KiCk i","artistName":"Arca","collectionType":"Album","artworkUrl100":"https://is1.example/img/100x100bb.jpg","releaseDate":"2020-06-25T07:00:00Z"},
			{"wrapperType":"collection","collectionId":901,"collectionName":"Madre - Single","artistName":"Arca","collectionType":"Album","releaseDate":"2021-02-10T08:00:00Z"}
		]}`))
	}))
	defer server.Close()

	svc := NewITunesService(server.URL, server.Client(), 100000)

	releases, err := svc.ArtistReleases(context.Background(), "123", 0)
	if err != nil {
		t.Fatalf("ArtistReleases failed: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases (artist entry skipped), got %d", len(releases))
	}

	first := releases[0]
	if first.Source != models.SourceITunes || first.SourceID != "900" {
		t.Errorf("unexpected release identity: %+v", first)
	}
	if first.Date != "2020-06-25" {
		t.Errorf("expected truncated date, got %s", first.Date)
	}
	if first.ArtworkURL != "https://is1.example/img/1000x1000bb.jpg" {
		t.Errorf("expected high-res artwork rewrite, got %s", first.ArtworkURL)
	}
	if first.Kind != models.TypeAlbum {
		t.Errorf("expected Album, got %s", first.Kind)
	}
	if releases[1].Kind != models.TypeSingle {
		t.Errorf("expected Single from title suffix, got %s", releases[1].Kind)
	}

	// lookup is unpaginated; further offsets must terminate AllReleases
	page, err := svc.ArtistReleases(context.Background(), "123", 2)
	if err != nil {
		t.Fatalf("offset page failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page past offset 0, got %d", len(page))
	}
}

func TestHighResArtwork(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://a.example/x/100x100bb.jpg", "https://a.example/x/1000x1000bb.jpg"},
		{"https://a.example/x/600x600bb.jpg", "https://a.example/x/600x600bb.jpg"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := HighResArtwork(tt.in); got != tt.want {
			t.Errorf("HighResArtwork(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
