package tui

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/engine"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/gesture"
	"github.com/tessro/wavehook/internal/tui/components"
	"github.com/tessro/wavehook/internal/tui/styles"
)

const (
	// cellHeight approximates one terminal row in pixels so wheel deltas and
	// drag distances are measured like a touch screen.
	cellHeight = 16

	// wheelDelta is the pixel delta of one wheel notch.
	wheelDelta = 100

	errorTTL = 5 * time.Second
)

// Player is what the UI drives.
type Player interface {
	Start(ctx context.Context) error
	NextHook() (int, error)
	TogglePlay() error
	Snapshot() core.Snapshot
	Bridge() *gesture.Bridge
}

// Scorer reports language preferences for display.
type Scorer interface {
	Scores() (map[string]int, error)
	BestLanguage() (string, bool, error)
}

// App holds the TUI application dependencies
type App struct {
	player      Player
	scorer      Scorer
	refreshRate time.Duration
}

// NewApp creates a new TUI application
func NewApp(player Player, scorer Scorer, refreshRate time.Duration) *App {
	if refreshRate <= 0 {
		refreshRate = 250 * time.Millisecond
	}
	return &App{player: player, scorer: scorer, refreshRate: refreshRate}
}

// Model is the main TUI model
type Model struct {
	app    *App
	keys   keyMap
	help   help.Model
	width  int
	height int

	snap   core.Snapshot
	scores map[string]int
	best   string
	tracks map[string]*core.Track
	seen   map[string]time.Time

	nowPlaying *components.NowPlaying
	history    *components.History
	prefs      *components.Prefs

	showHelp bool
	notice   string

	lastError   error
	errorExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	return Model{
		app:        app,
		keys:       defaultKeyMap(),
		help:       help.New(),
		tracks:     make(map[string]*core.Track),
		seen:       make(map[string]time.Time),
		nowPlaying: components.NewNowPlaying(),
		history:    components.NewHistory(),
		prefs:      components.NewPrefs(),
	}
}

// Messages
type tickMsg time.Time
type errMsg error
type navMsg struct {
	dir gesture.Direction
	err error
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		return navMsg{err: m.app.player.Start(context.Background())}
	}
}

func (m Model) navigate(d gesture.Direction) tea.Cmd {
	if d == gesture.None {
		return nil
	}
	return func() tea.Msg {
		return navMsg{dir: d, err: m.app.player.Bridge().Navigate(context.Background(), d)}
	}
}

func (m Model) nextHook() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.app.player.NextHook(); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m Model) togglePlay() tea.Cmd {
	return func() tea.Msg {
		if err := m.app.player.TogglePlay(); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.start())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.app.player.Bridge().SetViewport(float64(msg.Height * cellHeight))
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case navMsg:
		m.refresh()
		m.notice = ""
		switch {
		case msg.err == nil:
		case stderrors.Is(msg.err, errors.ErrEmptyHistory):
			m.notice = "Already at the first track"
		case stderrors.Is(msg.err, errors.ErrBusy):
		default:
			m.setError(msg.err)
		}
		return m, nil

	case errMsg:
		m.setError(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) setError(err error) {
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorTTL)
}

// refresh pulls a new snapshot and preference scores.
func (m *Model) refresh() {
	if time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}

	m.snap = m.app.player.Snapshot()
	if t := m.snap.Track; t != nil {
		if _, ok := m.tracks[t.ID]; !ok {
			m.tracks[t.ID] = t
		}
		if _, ok := m.seen[t.ID]; !ok {
			m.seen[t.ID] = m.snap.LoadedAt
		}
	}

	if m.app.scorer == nil {
		return
	}
	if scores, err := m.app.scorer.Scores(); err == nil {
		m.scores = scores
	}
	if best, ok, err := m.app.scorer.BestLanguage(); err == nil && ok {
		m.best = best
	} else {
		m.best = ""
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || !m.showHelp) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Next):
		return m, m.navigate(gesture.Forward)
	case key.Matches(msg, m.keys.Prev):
		return m, m.navigate(gesture.Backward)
	case key.Matches(msg, m.keys.Hook):
		return m, m.nextHook()
	case key.Matches(msg, m.keys.PlayPause):
		return m, m.togglePlay()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	}
	return m, nil
}

// handleMouse maps the wheel to scroll deltas and a left-button drag to a
// touch swipe.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	bridge := m.app.player.Bridge()
	y := float64(msg.Y * cellHeight)

	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		return m, m.navigate(bridge.Wheel(wheelDelta))
	case msg.Button == tea.MouseButtonWheelUp:
		return m, m.navigate(bridge.Wheel(-wheelDelta))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		bridge.Begin(y)
	case msg.Action == tea.MouseActionMotion:
		bridge.Move(y)
	case msg.Action == tea.MouseActionRelease:
		return m, m.navigate(bridge.End())
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	mainHeight := m.height - 2
	prefsHeight := mainHeight * 40 / 100
	historyHeight := mainHeight - prefsHeight

	offset := int(m.app.player.Bridge().Offset()) / cellHeight

	nowPlaying := m.nowPlaying.Render(&m.snap, leftWidth-2, mainHeight-2, offset, true)
	entries := components.Entries(&m.snap, m.tracks, m.seen)
	historyView := m.history.Render(entries, rightWidth-2, historyHeight-2, false)
	prefsView := m.prefs.Render(m.scores, m.best, rightWidth-2, prefsHeight-2, false)

	rightCol := lipgloss.JoinVertical(lipgloss.Left, historyView, prefsView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, nowPlaying, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := m.help.ShortHelpView(m.keys.ShortHelp())
	switch {
	case m.lastError != nil:
		text := "Error: " + m.lastError.Error()
		if s := errors.GetSuggestion(m.lastError); s != "" {
			text += " (" + s + ")"
		}
		status = styles.ErrorText.Render(text)
	case m.notice != "":
		status = styles.Muted.Render(m.notice)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := styles.Highlight.Render("WaveHook - Keyboard Shortcuts")
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		styles.Dim.Render("Scroll or drag the card to swipe between tracks."),
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Padding(1, 2).Render(body))
}

// Run starts the TUI and the controller's device event loop.
func Run(ctrl *engine.Controller, scorer Scorer, refreshRate time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ctrl.Run(ctx)
	}()

	model := NewModel(NewApp(ctrl, scorer, refreshRate))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()

	cancel()
	<-done
	return err
}
