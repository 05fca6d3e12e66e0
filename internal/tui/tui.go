// Package tui provides a Bubble Tea terminal user interface for poster-downloader.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/handiism/poster-downloader/internal/config"
	"github.com/handiism/poster-downloader/internal/download"
	"github.com/handiism/poster-downloader/internal/model"
	"github.com/handiism/poster-downloader/internal/source"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
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
)

// maxLogs is how many recent events stay on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error
	verbose  bool

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Events emitted by the manager, drained one message at a time.
	events chan download.ProgressEvent

	manager *download.Manager
	rows    []model.InputRow
	stats   download.Progress
	mapped  int

	width  int
	height int
}

// NewModel creates a new TUI model for settings.
func NewModel(settings *config.Settings, verbose bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0, maxLogs),
		verbose:  verbose,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan download.ProgressEvent, 256),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadRows(), m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every event emitted by the manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// LoadedMsg is sent when the input table is read and outputs are open.
	LoadedMsg struct {
		Rows    []model.InputRow
		Manager *download.Manager
		Err     error
	}

	// DownloadDoneMsg is sent when every row reached an outcome.
	DownloadDoneMsg struct {
		Mapped int
		Err    error
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
			if m.state == StateLoading || m.state == StateDownloading {
				// Rows still pending are recorded as cancelled; the run
				// finishes and reports as usual.
				m.cancel()
				m.appendLog(LogEntry{Message: "Cancelling...", Level: download.LevelWarning})
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != download.LevelVerbose || m.verbose {
			m.appendLog(LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		}
		cmds = append(cmds, m.waitForEvent())

	case LoadedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.rows = msg.Rows
			m.manager = msg.Manager
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		if m.manager != nil {
			m.stats = m.manager.GetProgress()
			m.manager.Close()
		}
		m.mapped = msg.Mapped
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateDownloading {
			m.stats = m.manager.GetProgress()
			cmds = append(cmds, m.progress.SetPercent(m.percent()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m Model) percent() float64 {
	if m.stats.Total == 0 {
		return 0
	}
	return float64(m.stats.Done) / float64(m.stats.Total)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Poster Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s → %s", m.settings.InputPath, m.settings.OutputImageDir)))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
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

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading input..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Downloading %d posters (%d in flight)", m.stats.Total, m.stats.InFlight)))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Rows: %d/%d | OK: %d | Skipped: %d | Failed: %d | %s",
		m.stats.Done,
		m.stats.Total,
		m.stats.Succeeded,
		m.stats.Skipped,
		m.stats.Failed,
		humanize.Bytes(uint64(m.stats.Bytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Download Complete!\n\n"+
			"Rows:       %d\n"+
			"Downloaded: %d (%s)\n"+
			"Skipped:    %d\n"+
			"Failed:     %d\n"+
			"Elapsed:    %s\n\n"+
			"Mapping:  %s\n"+
			"Failures: %s",
		m.stats.Total,
		m.mapped,
		humanize.Bytes(uint64(m.stats.Bytes)),
		m.stats.Skipped,
		m.stats.Failed,
		m.stats.Elapsed.Round(time.Millisecond),
		m.settings.SuccessMappingPath,
		m.settings.FailureLogPath,
	))
	b.WriteString(box)
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
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
	case StateLoading, StateDownloading:
		return "esc: cancel • ctrl+c: quit"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// emit forwards a manager event to the UI without blocking a worker.
// Events are dropped when the UI falls behind; counters are polled
// separately, so nothing but log lines is lost.
func (m Model) emit(event download.ProgressEvent) {
	select {
	case m.events <- event:
	default:
	}
}

// eventWriter turns fallback log lines into error events.
type eventWriter struct {
	emit func(download.ProgressEvent)
}

func (w eventWriter) Write(p []byte) (int, error) {
	w.emit(download.ProgressEvent{Message: strings.TrimSpace(string(p)), Level: download.LevelError})
	return len(p), nil
}

// loadRows reads the input table and opens the outputs.
func (m Model) loadRows() tea.Cmd {
	return func() tea.Msg {
		rows, err := source.OpenCSV(m.settings.InputPath, m.settings.ToSourceOptions())
		if err != nil {
			return LoadedMsg{Err: err}
		}

		fallback := slog.New(slog.NewTextHandler(eventWriter{emit: m.emit}, nil))
		manager, err := download.Open(m.ctx, m.settings, fallback, m.emit)
		if err != nil {
			return LoadedMsg{Err: err}
		}

		return LoadedMsg{Rows: rows, Manager: manager}
	}
}

// startDownload runs the batch in the background.
func (m Model) startDownload() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		mapping, err := m.manager.Run(m.ctx, m.rows)
		return DownloadDoneMsg{Mapped: len(mapping), Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, verbose bool) error {
	p := tea.NewProgram(NewModel(settings, verbose), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
