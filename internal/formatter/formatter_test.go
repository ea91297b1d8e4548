package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/timeline"
)

func sampleEntries() []timeline.Entry {
	return []timeline.Entry{
		{
			ArtistID:   "a1",
			ArtistName: "Arca",
			Release: models.Release{
				SourceID: "d1", Title: "KicK iiiii", Date: "2021-12-03",
				Kind: models.TypeAlbum, Source: models.SourceDeezer,
			},
		},
		{
			ArtistID:   "a2",
			ArtistName: "Björk",
			Release: models.Release{
				SourceID: "i1", Title: "Atopos", Date: "2022-09-06",
				Kind: models.TypeSingle, Source: models.SourceITunes,
				ArtworkURL: "https://cdn.example/atopos.jpg",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"MD", FormatMarkdown, false},
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleEntries()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "2021-12-03") || !strings.Contains(out, "KicK iiiii") {
		t.Errorf("missing release line:\n%s", out)
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "no releases") {
		t.Errorf("expected empty placeholder, got %q", buf.String())
	}
}

func TestWriteMarkdown(t *testing.T) {
	entries := sampleEntries()
	entries[0].Release.Title = "A|B"

	var buf bytes.Buffer
	if err := Write(&buf, FormatMarkdown, entries); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + separator + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "| Date |") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[2], `A\|B`) {
		t.Errorf("pipe not escaped: %s", lines[2])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleEntries()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d", len(records))
	}
	if records[1][1] != "Arca" || records[1][2] != "KicK iiiii" {
		t.Errorf("unexpected first record: %v", records[1])
	}
	if records[2][5] != "https://cdn.example/atopos.jpg" {
		t.Errorf("expected artwork column, got %v", records[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleEntries()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"artist": "Björk"`) || !strings.Contains(out, `"source": "itunes"`) {
		t.Errorf("unexpected json output:\n%s", out)
	}
}
