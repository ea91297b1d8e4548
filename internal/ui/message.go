package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/herald/internal/matching"
	"github.com/desertthunder/herald/internal/models"
)

type artistsLoadedMsg struct {
	artists []*models.Artist
	err     error
}

type releasesLoadedMsg struct {
	releases []models.Release
	err      error
}

type candidatesLoadedMsg struct {
	candidates []matching.Candidate
	err        error
}

type linkDoneMsg struct {
	candidate matching.Candidate
	err       error
}

var (
	_ tea.Msg = artistsLoadedMsg{}
	_ tea.Msg = releasesLoadedMsg{}
	_ tea.Msg = candidatesLoadedMsg{}
	_ tea.Msg = linkDoneMsg{}
)
