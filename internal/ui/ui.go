package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/herald/internal/matching"
	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/timeline"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ArtistListView ViewState = iota
	ReleaseListView
	CandidateListView
	ConfirmView
)

// ArtistLister loads the tracked artists shown in the first view.
type ArtistLister interface {
	List(criteria map[string]any) ([]*models.Artist, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	view           ViewState
	artists        ArtistLister
	merger         *timeline.Merger
	matcher        *matching.IdentityMatcher
	width          int
	height         int
	artistList     list.Model
	releaseList    list.Model
	candidateList  list.Model
	selectedArtist *models.Artist
	candidate      matching.Candidate
	status         string
	err            error
	help           help.Model
	keys           keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, artists ArtistLister, merger *timeline.Merger, matcher *matching.IdentityMatcher) *Model {
	return &Model{
		ctx:     ctx,
		view:    ArtistListView,
		artists: artists,
		merger:  merger,
		matcher: matcher,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading the tracked artists.
func (m *Model) Init() tea.Cmd {
	return m.loadArtists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.artistList.SetSize(msg.Width-4, msg.Height-8)
		m.releaseList.SetSize(msg.Width-4, msg.Height-8)
		m.candidateList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ArtistListView:
			return m.handleArtistListKeys(msg)
		case ReleaseListView:
			return m.handleReleaseListKeys(msg)
		case CandidateListView:
			return m.handleCandidateListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		}

	case artistsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.artists))
		for i, artist := range msg.artists {
			items[i] = artistItem{artist: artist}
		}
		m.artistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.artistList.Title = "Tracked Artists"
		m.artistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case releasesLoadedMsg:
		items := make([]list.Item, len(msg.releases))
		for i, release := range msg.releases {
			items[i] = releaseItem{release: release}
		}
		m.releaseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.releaseList.Title = fmt.Sprintf("Releases by %s", m.selectedArtist.Name())
		m.releaseList.SetSize(m.width-4, m.height-8)
		m.view = ReleaseListView
		return m, nil

	case candidatesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = ArtistListView
			return m, nil
		}
		items := make([]list.Item, len(msg.candidates))
		for i, candidate := range msg.candidates {
			items[i] = candidateItem{candidate: candidate}
		}
		m.candidateList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.candidateList.Title = fmt.Sprintf("iTunes matches for %s", m.selectedArtist.Name())
		m.candidateList.SetSize(m.width-4, m.height-8)
		m.view = CandidateListView
		return m, nil

	case linkDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = fmt.Sprintf("Linked %s to %s", m.selectedArtist.Name(), msg.candidate.Name)
		}
		m.view = ArtistListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ArtistListView:
		return m.renderArtistList()
	case ReleaseListView:
		return m.renderReleaseList()
	case CandidateListView:
		return m.renderCandidateList()
	case ConfirmView:
		return m.renderConfirm()
	default:
		return ""
	}
}

func (m *Model) handleArtistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if artist := m.selectedArtistItem(); artist != nil {
			m.selectedArtist = artist
			return m, m.loadReleases(artist)
		}
	case "s":
		if artist := m.selectedArtistItem(); artist != nil {
			m.selectedArtist = artist
			return m, m.loadCandidates(artist)
		}
	}

	var cmd tea.Cmd
	m.artistList, cmd = m.artistList.Update(msg)
	return m, cmd
}

func (m *Model) handleReleaseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ArtistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.releaseList, cmd = m.releaseList.Update(msg)
	return m, cmd
}

func (m *Model) handleCandidateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ArtistListView
		return m, nil
	case "enter":
		selected := m.candidateList.SelectedItem()
		if item, ok := selected.(candidateItem); ok {
			m.candidate = item.candidate
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = CandidateListView
		return m, nil
	case "y":
		return m, m.linkCandidate()
	}
	return m, nil
}

func (m *Model) selectedArtistItem() *models.Artist {
	selected := m.artistList.SelectedItem()
	if item, ok := selected.(artistItem); ok {
		return item.artist
	}
	return nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case ReleaseListView:
		m.releaseList, cmd = m.releaseList.Update(msg)
	case CandidateListView:
		m.candidateList, cmd = m.candidateList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadArtists() tea.Cmd {
	return func() tea.Msg {
		artists, err := m.artists.List(map[string]any{})
		return artistsLoadedMsg{artists: artists, err: err}
	}
}

func (m *Model) loadReleases(artist *models.Artist) tea.Cmd {
	return func() tea.Msg {
		releases := m.merger.ForArtist(m.ctx, artist)
		return releasesLoadedMsg{releases: releases}
	}
}

func (m *Model) loadCandidates(artist *models.Artist) tea.Cmd {
	return func() tea.Msg {
		candidates, err := m.matcher.SearchCandidates(m.ctx, artist)
		return candidatesLoadedMsg{candidates: candidates, err: err}
	}
}

func (m *Model) linkCandidate() tea.Cmd {
	return func() tea.Msg {
		err := m.matcher.Link(m.selectedArtist, m.candidate.ID)
		return linkDoneMsg{candidate: m.candidate, err: err}
	}
}

func (m *Model) renderArtistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	status := ""
	if m.status != "" {
		status = "\n" + styles.ok.Render(m.status)
	}
	return fmt.Sprintf("%s%s\n\n%s", m.artistList.View(), status, helpView)
}

func (m *Model) renderReleaseList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.releaseList.View(), helpView)
}

func (m *Model) renderCandidateList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.candidateList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Link '%s' to iTunes artist '%s'?", m.selectedArtist.Name(), m.candidate.Name))
	info := fmt.Sprintf("\nShared releases: %d\nLatest release: %s (%s)\n",
		m.candidate.Overlap, m.candidate.LatestTitle, m.candidate.LatestDate)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
