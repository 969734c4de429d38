package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/services"
	"github.com/desertthunder/vgx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CatalogView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	catalog      services.CatalogService
	engine       tasks.BridgeEngine
	opts         tasks.RunOpts
	width        int
	height       int
	catalogList  list.Model
	descriptors  []models.Descriptor
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.BridgeRunResult
	err          error
	help         help.Model
	keys         keyMap
}

type rosterFetchedMsg struct {
	descriptors []models.Descriptor
	err         error
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.BridgeRunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.CatalogService, engine tasks.BridgeEngine, opts tasks.RunOpts) *Model {
	return &Model{
		ctx:     ctx,
		view:    CatalogView,
		catalog: catalog,
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the track roster.
func (m *Model) Init() tea.Cmd {
	return m.fetchRoster()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.catalogList.Width() == 0 {
			m.catalogList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CatalogView:
			return m.handleCatalogKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case rosterFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.descriptors = msg.descriptors
		items := make([]list.Item, len(msg.descriptors))
		for i, descriptor := range msg.descriptors {
			items[i] = catalogItem{descriptor: descriptor}
		}
		m.catalogList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.catalogList.Title = fmt.Sprintf("%s Roster (%d tracks)", m.catalog.Name(), len(msg.descriptors))
		m.catalogList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CatalogView:
		return m.renderCatalog()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.descriptors) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.catalogList, cmd = m.catalogList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = CatalogView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = CatalogView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == CatalogView {
		m.catalogList, cmd = m.catalogList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchRoster() tea.Cmd {
	return func() tea.Msg {
		descriptors, err := m.catalog.ExtractTracks(m.ctx)
		return rosterFetchedMsg{descriptors: descriptors, err: err}
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.opts)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderCatalog() string {
	bridgeKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "bridge"))
	helpKeys := []key.Binding{bridgeKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.catalogList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	limit := len(m.descriptors)
	if m.opts.Limit > 0 && m.opts.Limit < limit {
		limit = m.opts.Limit
	}

	title := styles.title.Render(fmt.Sprintf("Bridge %d tracks to Spotify?", limit))
	name := m.opts.PlaylistName
	if name == "" {
		name = "Ultimate VGM Collection"
	}
	info := fmt.Sprintf("\nPlaylist: %s\nSource: %s\n", name, m.catalog.Name())

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Bridging Roster to Spotify")

	var phase string
	switch m.progress.Phase {
	case tasks.ExtractCatalog:
		phase = "Fetching track roster..."
	case tasks.MatchTracks:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.AddTracks:
		phase = "Adding matched tracks..."
	case tasks.WriteResults:
		phase = "Writing results report..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Bridge failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil || m.result.Report == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	report := m.result.Report
	title := styles.ok.Render("✓ Bridge Complete!")
	info := fmt.Sprintf(
		"\nMatched: %d/%d (%.1f%%)\nFiltered: %d\nNot found: %d\nErrors: %d",
		report.Matched, report.Total, report.SuccessRate(),
		report.Filtered, report.NotFound, report.Errored,
	)
	if m.result.Playlist != nil {
		info += fmt.Sprintf("\n\nPlaylist: %s", m.result.Playlist.Name)
		if m.result.Playlist.URL != "" {
			info += fmt.Sprintf("\nURL: %s", m.result.Playlist.URL)
		}
	}
	if m.result.ResultsPath != "" {
		info += fmt.Sprintf("\nResults: %s", m.result.ResultsPath)
	}

	var missed string
	misses := report.Filtered + report.NotFound + report.Errored
	if misses > 0 {
		missed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Unmatched %d tracks:", misses)))
		shown := 0
		for _, outcome := range report.Outcomes {
			if outcome.Status == models.StatusMatched {
				continue
			}
			missed += fmt.Sprintf("\n  • %s - %s", outcome.Descriptor.Artist, outcome.Descriptor.Title)
			if shown++; shown >= 10 {
				missed += fmt.Sprintf("\n  ... and %d more", misses-shown)
				break
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missed, helpView)
}
