// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for bridging the VipVGM roster to Spotify:
//  1. [CatalogView] : Browse the fetched track roster
//  2. [ConfirmView] : Confirm the bridge run and destination playlist
//  3. [RunView] : Monitor real-time matching progress
//  4. [ResultView] : Display match counts, the created playlist, and unmatched tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the [tasks.BridgeEngine], providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
