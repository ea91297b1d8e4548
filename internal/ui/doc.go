// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing tracked artists:
//  1. [ArtistListView] : Browse saved artists and their link state
//  2. [ReleaseListView] : View an artist's merged release timeline
//  3. [CandidateListView] : Pick a cross-source match candidate
//  4. [ConfirmView] : Confirm the link before it is saved
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
