// Package tui provides a Bubble Tea terminal user interface for f1rdf.
//
// The screens follow one selection flow: season, event, section checklist,
// fetch progress, then results with export. Pressing h on the results
// screen returns home and clears everything; r keeps the event and goes
// back to the checklist.
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

	"github.com/handiism/f1rdf/internal/export"
	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/session"
)

// State represents the current UI state.
type State int

const (
	StateSeason State = iota
	StateLoadingEvents
	StateEvents
	StateSections
	StateFetching
	StateResults
	StateError
)

// Calendar looks up a season's events.
type Calendar interface {
	Schedule(ctx context.Context, season int) ([]model.Event, error)
}

// Options configures the TUI.
type Options struct {
	Provider    fetch.Provider
	Calendar    Calendar
	Concurrency int

	// OutputDir is where e writes exports.
	OutputDir string
	Save      export.SaveOptions

	// DefaultSeason prefills the season input.
	DefaultSeason int
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   fetch.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	opts      Options
	logs      []LogEntry
	err       error
	notice    string

	orchestrator *fetch.Orchestrator
	session      *session.Session
	events       chan fetch.ProgressEvent
	updates      chan tea.Msg

	ctx    context.Context
	cancel context.CancelFunc

	season   int
	calendar []model.Event
	event    model.Event
	cursor   int

	lastProgress fetch.Progress
	saved        *export.Saved

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "2024"
	ti.CharLimit = 4
	ti.Width = 10
	ti.Focus()
	if opts.DefaultSeason > 0 {
		ti.SetValue(strconv.Itoa(opts.DefaultSeason))
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E10600"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	events := make(chan fetch.ProgressEvent, 64)
	orchestrator := fetch.NewOrchestrator(nil, opts.Provider,
		fetch.WithConcurrency(opts.Concurrency),
		fetch.WithEvents(func(e fetch.ProgressEvent) {
			select {
			case events <- e:
			default:
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateSeason,
		textInput:    ti,
		spinner:      sp,
		progress:     prog,
		opts:         opts,
		orchestrator: orchestrator,
		session:      session.New(orchestrator.Registry()),
		events:       events,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

// Message types
type (
	// ProgressMsg is sent after each section of a batch finishes.
	ProgressMsg struct {
		Progress fetch.Progress
	}

	// EventMsg carries a batch log line.
	EventMsg struct {
		Event fetch.ProgressEvent
	}

	// ScheduleMsg is sent when a season calendar has loaded.
	ScheduleMsg struct {
		Season int
		Events []model.Event
		Err    error
	}

	// BatchDoneMsg is sent when a fetch batch completes.
	BatchDoneMsg struct {
		Cache *session.Cache
		Err   error
	}

	// ExportDoneMsg is sent when the export files have been written.
	ExportDoneMsg struct {
		Saved *export.Saved
		Err   error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}
		cmds = append(cmds, waitForEvent(m.events))

	case ProgressMsg:
		m.lastProgress = msg.Progress
		cmds = append(cmds, m.progress.SetPercent(msg.Progress.Fraction()), waitForUpdate(m.updates))

	case ScheduleMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = fmt.Errorf("load %d calendar: %w", msg.Season, msg.Err)
			break
		}
		if len(msg.Events) == 0 {
			m.state = StateSeason
			m.notice = fmt.Sprintf("No events found for %d", msg.Season)
			break
		}
		m.season = msg.Season
		m.calendar = msg.Events
		m.cursor = 0
		m.state = StateEvents

	case BatchDoneMsg:
		// updates is closed by now; waitForUpdate drains what is left.
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			break
		}
		m.state = StateResults

	case ExportDoneMsg:
		if msg.Err != nil {
			m.notice = errorStyle.Render("Export failed: " + msg.Err.Error())
			break
		}
		m.saved = msg.Saved
		m.notice = successStyle.Render("Saved " + msg.Saved.Archive)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateSeason {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled is false when the key should
// fall through to the season text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancel()
		return m, tea.Quit, true
	}

	switch m.state {
	case StateSeason:
		switch key {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			season, err := strconv.Atoi(strings.TrimSpace(m.textInput.Value()))
			if err != nil || season < 1950 {
				m.notice = warningStyle.Render("Enter a season from 1950 onwards")
				return m, nil, true
			}
			m.notice = ""
			m.state = StateLoadingEvents
			return m, tea.Batch(m.loadSchedule(season), m.spinner.Tick), true
		}
		return m, nil, false

	case StateEvents:
		switch key {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(m.calendar)-1)
		case "esc":
			m.state = StateSeason
			m.textInput.Focus()
		case "enter":
			m.event = m.calendar[m.cursor]
			m.session.SetScope(m.event.Key())
			m.cursor = 0
			m.notice = ""
			m.state = StateSections
		}
		return m, nil, true

	case StateSections:
		ids := m.session.Registry().IDs()
		switch key {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(ids)-1)
		case " ", "x":
			if err := m.session.Toggle(ids[m.cursor]); err != nil {
				m.notice = errorStyle.Render(err.Error())
			} else {
				m.notice = ""
			}
		case "a":
			if m.session.AllSelected() {
				m.session.ClearAll()
			} else {
				m.session.SelectAll()
			}
		case "esc":
			m.cursor = 0
			m.state = StateEvents
		case "enter":
			if len(m.session.Selected()) == 0 {
				m.notice = warningStyle.Render("Select at least one data section")
				return m, nil, true
			}
			m.notice = ""
			m.logs = nil
			m.lastProgress = fetch.Progress{}
			m.state = StateFetching
			m.updates = make(chan tea.Msg, len(ids)+1)
			return m, tea.Batch(m.runBatch(m.updates), waitForUpdate(m.updates), m.progress.SetPercent(0)), true
		}
		return m, nil, true

	case StateFetching:
		if key == "esc" {
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
		}
		return m, nil, true

	case StateResults:
		switch key {
		case "e":
			return m, m.exportArchive(), true
		case "r":
			m.session.Reset()
			m.resetResults()
			m.state = StateSections
		case "h":
			m.session.SetScope(model.SelectionKey{})
			m.resetResults()
			m.calendar = nil
			m.event = model.Event{}
			m.state = StateSeason
			m.textInput.Focus()
		case "q", "esc":
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateError:
		switch key {
		case "h", "r":
			m.err = nil
			m.resetResults()
			m.state = StateSeason
			m.textInput.Focus()
		case "q", "esc":
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m *Model) resetResults() {
	m.cursor = 0
	m.logs = nil
	m.notice = ""
	m.saved = nil
	m.lastProgress = fetch.Progress{}
}

// loadSchedule fetches the season calendar.
func (m Model) loadSchedule(season int) tea.Cmd {
	ctx, calendar := m.ctx, m.opts.Calendar
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		events, err := calendar.Schedule(ctx, season)
		return ScheduleMsg{Season: season, Events: events, Err: err}
	}
}

// runBatch fetches the selected sections, streaming progress into updates.
func (m Model) runBatch(updates chan tea.Msg) tea.Cmd {
	ctx, orchestrator, sess := m.ctx, m.orchestrator, m.session
	return func() tea.Msg {
		cache, err := fetch.Run(ctx, orchestrator, sess, func(p fetch.Progress) {
			updates <- ProgressMsg{Progress: p}
		})
		close(updates)
		return BatchDoneMsg{Cache: cache, Err: err}
	}
}

// exportArchive writes the archive for the cached results.
func (m Model) exportArchive() tea.Cmd {
	ctx, sess, opts := m.ctx, m.session, m.opts
	name := export.ArchiveName(m.event.Season, m.event.Name)
	return func() tea.Msg {
		saved, err := export.Save(ctx, opts.OutputDir, name, sess.Cache(), sess.Registry(), opts.Save)
		return ExportDoneMsg{Saved: saved, Err: err}
	}
}

func waitForUpdate(updates chan tea.Msg) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return nil
		}
		return msg
	}
}

func waitForEvent(events chan fetch.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-events}
	}
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
