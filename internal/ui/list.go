package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/herald/internal/matching"
	"github.com/desertthunder/herald/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = releaseItem{}
	_ list.Item = candidateItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist *models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name() }
func (i artistItem) Title() string       { return i.artist.Name() }
func (i artistItem) Description() string {
	links := "unlinked"
	switch {
	case i.artist.Linked(models.SourceDeezer) && i.artist.Linked(models.SourceITunes):
		links = "deezer • itunes"
	case i.artist.Linked(models.SourceDeezer):
		links = "deezer"
	case i.artist.Linked(models.SourceITunes):
		links = "itunes"
	}
	if title := i.artist.LastReleaseTitle(); title != "" {
		return fmt.Sprintf("%s • latest: %s", links, title)
	}
	return links
}

// releaseItem wraps [models.Release] to implement [list.Item].
type releaseItem struct {
	release models.Release
}

func (i releaseItem) FilterValue() string { return i.release.Title }
func (i releaseItem) Title() string       { return i.release.Title }
func (i releaseItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.release.Kind, i.release.Source)
	if i.release.Date != "" {
		desc = fmt.Sprintf("%s • %s", i.release.Date, desc)
	}
	return desc
}

// candidateItem wraps [matching.Candidate] to implement [list.Item].
type candidateItem struct {
	candidate matching.Candidate
}

func (i candidateItem) FilterValue() string { return i.candidate.Name }
func (i candidateItem) Title() string       { return i.candidate.Name }
func (i candidateItem) Description() string {
	desc := fmt.Sprintf("%d shared releases", i.candidate.Overlap)
	if i.candidate.LatestTitle != "" {
		desc = fmt.Sprintf("%s • latest: %s (%s)", desc, i.candidate.LatestTitle, i.candidate.LatestDate)
	}
	return desc
}
