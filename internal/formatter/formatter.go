// Package formatter renders merged release timelines for export. Supported
// formats are plain text, markdown tables, CSV and JSON.
package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/herald/internal/shared"
	"github.com/desertthunder/herald/internal/timeline"
)

// Format identifies an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, name)
	}
}

// Write renders the timeline entries in the given format.
func Write(w io.Writer, format Format, entries []timeline.Entry) error {
	switch format {
	case FormatMarkdown:
		return writeMarkdown(w, entries)
	case FormatCSV:
		return writeCSV(w, entries)
	case FormatJSON:
		return writeJSON(w, entries)
	default:
		return writeText(w, entries)
	}
}

func writeText(w io.Writer, entries []timeline.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no releases")
		return err
	}

	for _, entry := range entries {
		date := entry.Release.Date
		if date == "" {
			date = "unknown"
		}
		_, err := fmt.Fprintf(w, "%s  %-8s %s - %s\n", date, entry.Release.Kind, entry.ArtistName, entry.Release.Title)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, entries []timeline.Entry) error {
	if _, err := fmt.Fprintln(w, "| Date | Artist | Title | Type | Source |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| --- | --- | --- | --- | --- |"); err != nil {
		return err
	}

	for _, entry := range entries {
		_, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			entry.Release.Date,
			escapePipes(entry.ArtistName),
			escapePipes(entry.Release.Title),
			entry.Release.Kind,
			entry.Release.Source,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(w io.Writer, entries []timeline.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "artist", "title", "type", "source", "artwork_url"}); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.Release.Date,
			entry.ArtistName,
			entry.Release.Title,
			string(entry.Release.Kind),
			string(entry.Release.Source),
			entry.Release.ArtworkURL,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type jsonEntry struct {
	Date       string `json:"date"`
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Source     string `json:"source"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

func writeJSON(w io.Writer, entries []timeline.Entry) error {
	rows := make([]jsonEntry, len(entries))
	for i, entry := range entries {
		rows[i] = jsonEntry{
			Date:       entry.Release.Date,
			Artist:     entry.ArtistName,
			Title:      entry.Release.Title,
			Type:       string(entry.Release.Kind),
			Source:     string(entry.Release.Source),
			ArtworkURL: entry.Release.ArtworkURL,
		}
	}

	data, err := shared.MarshalJSON(rows, true)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
