// Package tui provides a Bubble Tea terminal user interface for spddl.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spddl/spddl/internal/config"
	"github.com/spddl/spddl/internal/download"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/selection"
	"go.uber.org/zap"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxListed is the number of tracks shown on the selection screen.
const maxListed = 15

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateResolving
	StateSelecting
	StateDownloading
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	selInput  textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logger    *zap.Logger
	err       error

	// selErr is shown under the selection input until the next attempt.
	selErr error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	manager    *download.Manager
	tracker    *tracker
	collection *model.Collection
	selected   []model.Track
	status     trackerState
	summary    *download.Summary

	// Options
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings is copied; toggles in the UI
// never change the caller's value.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "https://open.spotify.com/album/..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	si := textinput.New()
	si.Placeholder = "blank for all, or e.g. 1 3 5"
	si.CharLimit = 500
	si.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = zap.NewNop()
	}
	s := *settings

	return Model{
		state:     StateInput,
		textInput: ti,
		selInput:  si,
		spinner:   sp,
		progress:  prog,
		settings:  &s,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		playlist:  s.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ResolvedMsg is sent when URL resolution completes.
	ResolvedMsg struct {
		Collection *model.Collection
		Manager    *download.Manager
		Tracker    *tracker
		Err        error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Summary *download.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateSelecting:
				m.reset()
				return m, nil
			case StateResolving, StateDownloading:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			switch m.state {
			case StateInput:
				if strings.TrimSpace(m.textInput.Value()) != "" {
					m.state = StateResolving
					return m, tea.Batch(m.resolve(), m.spinner.Tick)
				}
			case StateSelecting:
				if m.applySelection(m.selInput.Value()) {
					return m, tea.Batch(m.startDownload(), m.tickProgress())
				}
				return m, nil
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ResolvedMsg:
		if m.state != StateResolving {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}

		m.collection = msg.Collection
		m.manager = msg.Manager
		m.tracker = msg.Tracker

		if m.collection.IsSingle() {
			m.selected = m.collection.Tracks
			m.state = StateDownloading
			return m, tea.Batch(m.startDownload(), m.tickProgress())
		}

		m.state = StateSelecting
		m.textInput.Blur()
		m.selInput.SetValue("")
		m.selInput.Focus()
		return m, textinput.Blink

	case DownloadDoneMsg:
		if m.state != StateDownloading {
			return m, nil
		}
		m.summary = msg.Summary
		if m.tracker != nil {
			m.status = m.tracker.snapshot()
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.tracker != nil && m.state == StateDownloading {
			m.status = m.tracker.snapshot()
			progressCmd := m.progress.SetPercent(m.status.Percent())
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	switch m.state {
	case StateInput:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateSelecting:
		var cmd tea.Cmd
		m.selInput, cmd = m.selInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySelection parses input against the resolved tracks. On success the
// model moves to StateDownloading and true is returned; a malformed input
// is shown under the prompt.
func (m *Model) applySelection(input string) bool {
	selected, err := selection.Select(m.collection.Tracks, input)
	if err != nil {
		m.selErr = err
		return false
	}

	m.selErr = nil
	m.selected = selected
	m.state = StateDownloading
	m.selInput.Blur()
	return true
}

// reset prepares the model for a new URL.
func (m *Model) reset() {
	m.cancel()
	m.state = StateInput
	m.err = nil
	m.selErr = nil
	m.manager = nil
	m.tracker = nil
	m.collection = nil
	m.selected = nil
	m.summary = nil
	m.status = trackerState{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.selInput.Blur()
	m.textInput.SetValue("")
	m.textInput.Focus()
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ spddl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download tracks, albums and playlists as MP3"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateSelecting:
		b.WriteString(m.viewSelecting())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a track, album or playlist URL:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[×]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+t)\n", playlistCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+l)\n", verboseCheck))
	b.WriteString("\n")

	dir := m.settings.OutputDir
	if dir == "" {
		dir = "current directory"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", dir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Fetching metadata..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSelecting() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(m.collection.Describe()))
	b.WriteString("\n\n")

	for i, t := range m.collection.Tracks {
		if i == maxListed {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(m.collection.Tracks)-maxListed)))
			b.WriteString("\n")
			break
		}
		b.WriteString(trackStyle.Render(fmt.Sprintf("  %3s  %s", strconv.Itoa(i+1), t.DisplayName())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Tracks to download:"))
	b.WriteString("\n")
	b.WriteString(m.selInput.View())
	b.WriteString("\n")

	if m.selErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %v", m.selErr)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.collection != nil {
		b.WriteString(successStyle.Render(m.collection.Describe()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.progress.ViewAs(m.status.Percent()))
	b.WriteString("\n")

	line := fmt.Sprintf("Track %d/%d", m.status.Index, len(m.selected))
	if m.status.Current != "" {
		line += " | " + m.status.Current
	}
	if m.status.Written > 0 {
		line += " | " + humanize.Bytes(uint64(m.status.Written))
	}
	b.WriteString(infoStyle.Render(line))
	b.WriteString("\n\n")

	b.WriteString(renderLogs(m.status.Logs))

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := m.summary
	if s == nil {
		s = &download.Summary{}
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Downloaded: %d\n"+
			"Skipped: %d\n"+
			"Failed: %d\n"+
			"Size: %s",
		s.Message(),
		s.Downloaded,
		s.Skipped,
		s.Failed,
		humanize.Bytes(uint64(s.Bytes)),
	))
	b.WriteString(box)
	b.WriteString("\n")

	for _, o := range s.Outcomes {
		if o.Kind == download.Failed {
			b.WriteString(errorStyle.Render("✗ " + o.Track.DisplayName()))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(renderLogs(m.status.Logs))

	return b.String()
}

func renderLogs(logs []LogEntry) string {
	var b strings.Builder

	for _, log := range logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • ctrl+t: playlist • ctrl+l: verbose • esc: quit"
	case StateSelecting:
		return "enter: download • esc: back"
	case StateResolving, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// resolve builds a manager for the current options and resolves the URL.
func (m *Model) resolve() tea.Cmd {
	rawURL := strings.TrimSpace(m.textInput.Value())
	settings := *m.settings
	settings.CreatePlaylist = m.playlist
	tr := newTracker(m.verbose)
	ctx := m.ctx
	logger := m.logger

	return func() tea.Msg {
		manager := download.NewManager(&settings, download.Options{
			Logger:     logger,
			OnProgress: tr.onProgress,
			OnTrack:    tr.onTrack,
			OnBytes:    tr.onBytes,
		})

		coll, err := manager.Resolve(ctx, rawURL)
		if err != nil {
			return ResolvedMsg{Err: err}
		}
		return ResolvedMsg{Collection: coll, Manager: manager, Tracker: tr}
	}
}

// startDownload runs the selected tracks through the manager in background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	coll := m.collection
	tracks := m.selected
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}
		summary, err := manager.Download(ctx, coll, tracks)
		return DownloadDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
