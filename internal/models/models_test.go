package models

import (
	"testing"
	"time"
)

func TestClassifyReleaseType(t *testing.T) {
	tests := []struct {
		raw  string
		want ReleaseType
	}{
		{"album", TypeAlbum},
		{"Album", TypeAlbum},
		{" single ", TypeSingle},
		{"ep", TypeEP},
		{"compilation", TypeRelease},
		{"", TypeRelease},
	}

	for _, tt := range tests {
		if got := ClassifyReleaseType(tt.raw); got != tt.want {
			t.Errorf("ClassifyReleaseType(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestReleaseParsedDate(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"2024-06-01", true},
		{"2024-06-01T00:00:00Z", true},
		{"0000-00-00", false},
		{"", false},
		{"June 2024", false},
	}

	for _, tt := range tests {
		r := Release{Date: tt.date}
		parsed, ok := r.ParsedDate()
		if ok != tt.ok {
			t.Errorf("ParsedDate(%q) ok = %v, want %v", tt.date, ok, tt.ok)
		}
		if ok && parsed.Format("2006-01-02") != tt.date[:10] {
			t.Errorf("ParsedDate(%q) = %s", tt.date, parsed)
		}
	}
}

func TestArtistSetOnceIdentifiers(t *testing.T) {
	artist := NewArtist(1, "Arca")

	if !artist.SetDeezerID("42") {
		t.Fatal("first link should succeed")
	}
	if !artist.SetDeezerID("42") {
		t.Error("relinking the same id should succeed")
	}
	if artist.SetDeezerID("99") {
		t.Error("linking a different id should fail")
	}
	if artist.DeezerID() != "42" {
		t.Errorf("conflicting link must not mutate, got %s", artist.DeezerID())
	}

	artist.ClearDeezerID()
	if !artist.SetDeezerID("99") {
		t.Error("linking after explicit clear should succeed")
	}
}

func TestArtistLinked(t *testing.T) {
	artist := NewArtist(1, "Arca")

	if artist.Linked(SourceDeezer) || artist.Linked(SourceITunes) {
		t.Error("new artist should be unlinked")
	}

	artist.SetDeezerID("42")
	if !artist.Linked(SourceDeezer) {
		t.Error("expected deezer link")
	}
	if artist.Linked(SourceITunes) {
		t.Error("itunes should remain unlinked")
	}
}

func TestArtistValidate(t *testing.T) {
	if err := NewArtist(1, "").Validate(); err == nil {
		t.Error("empty name should fail validation")
	}
	if err := NewArtist(1, "Arca").Validate(); err != nil {
		t.Errorf("valid artist failed validation: %v", err)
	}
}

func TestNewArtistDefaults(t *testing.T) {
	before := time.Now()
	artist := NewArtist(3, "Arca")

	if !artist.Notify() {
		t.Error("notifications should default on")
	}
	if artist.Sequence() != 3 {
		t.Errorf("unexpected sequence: %d", artist.Sequence())
	}
	if artist.CreatedAt().Before(before.Add(-time.Second)) {
		t.Error("created at should be set")
	}
}
