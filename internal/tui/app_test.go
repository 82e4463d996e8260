package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/gesture"
	"github.com/tessro/wavehook/internal/tui/components"
)

type fakePlayer struct {
	bridge   *gesture.Bridge
	advances atomic.Int32
	retreats atomic.Int32
	hooks    atomic.Int32
	toggles  atomic.Int32
	snap     core.Snapshot
}

func newFakePlayer() *fakePlayer {
	p := &fakePlayer{}
	p.bridge = gesture.NewBridge(p, gesture.Options{})
	return p
}

func (p *fakePlayer) Advance(context.Context) error { p.advances.Add(1); return nil }
func (p *fakePlayer) Retreat(context.Context) error {
	p.retreats.Add(1)
	return errors.ErrEmptyHistory
}
func (p *fakePlayer) Start(context.Context) error { return nil }
func (p *fakePlayer) NextHook() (int, error)      { p.hooks.Add(1); return 1, nil }
func (p *fakePlayer) TogglePlay() error           { p.toggles.Add(1); return nil }
func (p *fakePlayer) Snapshot() core.Snapshot     { return p.snap }
func (p *fakePlayer) Bridge() *gesture.Bridge     { return p.bridge }

type fakeScorer struct{}

func (fakeScorer) Scores() (map[string]int, error)     { return map[string]int{"hindi": 7, "tamil": 4}, nil }
func (fakeScorer) BestLanguage() (string, bool, error) { return "hindi", true, nil }

func sized(t *testing.T, p *fakePlayer) Model {
	t.Helper()
	m := NewModel(NewApp(p, fakeScorer{}, time.Second))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestKeysNavigate(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = run(t, updated.(Model), cmd)
	assert.Equal(t, int32(1), p.advances.Load())

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = run(t, updated.(Model), cmd)
	assert.Equal(t, int32(1), p.retreats.Load())
	assert.Equal(t, "Already at the first track", m.notice)
	assert.Nil(t, m.lastError)
}

func TestKeysHookAndPlay(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, int32(1), p.hooks.Load())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, int32(1), p.toggles.Load())
}

func TestWheelSwipes(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	// 40 rows * 16px = 640px viewport, 160px threshold, 50px per notch.
	wheel := tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}
	for i := 0; i < 3; i++ {
		updated, cmd := m.Update(wheel)
		m = updated.(Model)
		assert.Nil(t, cmd)
	}
	updated, cmd := m.Update(wheel)
	run(t, updated.(Model), cmd)
	assert.Equal(t, int32(1), p.advances.Load())
}

func TestDragSwipes(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	press := tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress, Y: 30}
	move := tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion, Y: 10}
	release := tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease, Y: 10}

	updated, _ := m.Update(press)
	updated, _ = updated.(Model).Update(move)
	updated, cmd := updated.(Model).Update(release)
	run(t, updated.(Model), cmd)
	assert.Equal(t, int32(1), p.advances.Load())
}

func TestErrorsShownInStatusBar(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	updated, _ := m.Update(navMsg{dir: gesture.Forward, err: errors.Remote(fmt.Errorf("connection refused"))})
	m = updated.(Model)
	require.Error(t, m.lastError)
	assert.Contains(t, m.View(), "Error:")

	updated, _ = m.Update(navMsg{err: errors.ErrBusy})
	assert.Nil(t, updated.(Model).lastError, "busy is not an error")
}

func TestViewRendersPanels(t *testing.T) {
	p := newFakePlayer()
	p.snap = core.Snapshot{
		SessionID: "s",
		Track: &core.Track{
			ID:      "a",
			Title:   "Kesariya",
			Artists: []string{"Arijit Singh"},
			Hooks:   []string{"00:30", "01:10"},
		},
		Previous: []string{"a"},
		Volume:   1,
		LoadedAt: time.Now(),
	}
	m := sized(t, p)
	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "Now Playing")
	assert.Contains(t, view, "Kesariya")
	assert.Contains(t, view, "History")
	assert.Contains(t, view, "hindi")
}

func TestHelpToggle(t *testing.T) {
	p := newFakePlayer()
	m := sized(t, p)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = updated.(Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, updated.(Model).showHelp)
}

func TestQuit(t *testing.T) {
	m := sized(t, newFakePlayer())
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, updated.(Model).quitting)
	assert.Equal(t, "", updated.(Model).View())
}

func TestHistoryEntries(t *testing.T) {
	snap := &core.Snapshot{Previous: []string{"a", "b"}, Forward: []string{"d", "c"}}
	tracks := map[string]*core.Track{"b": {ID: "b", Title: "Bee"}}

	entries := components.Entries(snap, tracks, nil)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
	assert.True(t, entries[2].Current)
	assert.Equal(t, "Bee", entries[2].Track.Title)
	assert.True(t, entries[0].Upcoming)

	out := components.NewHistory().Render(entries, 60, 10, false)
	assert.True(t, strings.Contains(out, "Bee"))
}
