package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/tui/styles"
)

// NowPlaying displays the track card
type NowPlaying struct {
	bar progress.Model
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{
		bar: progress.New(
			progress.WithGradient(string(styles.Primary), string(styles.Wave)),
			progress.WithoutPercentage(),
		),
	}
}

// Render renders the now playing panel. offset is the gesture drag offset in
// rows and shifts the card the way a swipe would.
func (n *NowPlaying) Render(snap *core.Snapshot, width, height, offset int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	switch {
	case snap == nil || !snap.HasTrack():
		content = styles.Muted.Render("Nothing loaded yet")
	default:
		content = n.renderTrack(snap, width-4)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, title, "", content)
	body = shift(body, offset, height-2)

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(body)
}

func (n *NowPlaying) renderTrack(snap *core.Snapshot, width int) string {
	track := snap.Track

	icon := styles.StatusIcon(snap.IsPlaying)
	title := styles.Title.Render(Truncate(track.Title, width-4))
	artist := styles.Subtitle.Render(Truncate(track.ArtistLine(), width-2))

	lang := styles.Dim.Render(track.LanguageOrUnknown())

	barWidth := width - 14
	if barWidth < 10 {
		barWidth = 10
	}
	n.bar.Width = barWidth
	progressLine := fmt.Sprintf("%s %s %s",
		formatDuration(snap.Progress),
		n.bar.ViewAs(snap.ProgressPercent()/100),
		formatDuration(snap.Duration))

	hooks := renderHooks(track.Hooks, snap.HookIndex)

	lines := []string{
		icon + " " + title,
		"  " + artist,
		"  " + lang,
		"",
		progressLine,
		"",
		styles.Label.Render("hooks ") + hooks,
		styles.Muted.Render(fmt.Sprintf("vol %d%%", int(snap.Volume*100+0.5))),
	}
	if snap.Rejected {
		lines = append(lines, styles.Paused.Render("playback blocked, press space"))
	}
	if snap.Transiting {
		lines = append(lines, styles.Dim.Render("loading..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHooks(hooks []string, current int) string {
	parts := make([]string, len(hooks))
	for i, h := range hooks {
		if i == current {
			parts[i] = styles.Highlight.Render("[" + h + "]")
		} else {
			parts[i] = styles.Dim.Render(h)
		}
	}
	return strings.Join(parts, " ")
}

// shift moves the card vertically by offset rows within height.
func shift(body string, offset, height int) string {
	if offset == 0 || height <= 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	if offset > 0 {
		pad := make([]string, offset)
		lines = append(pad, lines...)
	} else {
		drop := -offset
		if drop >= len(lines) {
			drop = len(lines) - 1
		}
		lines = lines[drop:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to width display cells, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
