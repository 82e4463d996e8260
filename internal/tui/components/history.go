package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/tui/styles"
)

// HistoryEntry represents a track on one of the navigation stacks
type HistoryEntry struct {
	ID       string
	Track    *core.Track // nil until the track has been shown
	SeenAt   time.Time
	Current  bool
	Upcoming bool // on the forward stack
}

// History displays the back/forward stacks around the current track
type History struct{}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{}
}

// Entries builds the display list: forward stack (next first) on top, then
// the current track, then older tracks.
func Entries(snap *core.Snapshot, tracks map[string]*core.Track, seen map[string]time.Time) []HistoryEntry {
	if snap == nil {
		return nil
	}
	var entries []HistoryEntry
	for i := 0; i < len(snap.Forward); i++ {
		id := snap.Forward[i]
		entries = append(entries, HistoryEntry{ID: id, Track: tracks[id], SeenAt: seen[id], Upcoming: true})
	}
	for i := len(snap.Previous) - 1; i >= 0; i-- {
		id := snap.Previous[i]
		entries = append(entries, HistoryEntry{
			ID:      id,
			Track:   tracks[id],
			SeenAt:  seen[id],
			Current: i == len(snap.Previous)-1,
		})
	}
	return entries
}

// Render renders the history panel
func (h *History) Render(entries []HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (h *History) renderHistory(entries []HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for _, entry := range entries {
		if len(lines) >= maxLines {
			break
		}

		icon := " "
		switch {
		case entry.Current:
			icon = styles.Playing.Render("▶")
		case entry.Upcoming:
			icon = styles.Dim.Render("↑")
		}

		label := entry.ID
		if entry.Track != nil {
			label = entry.Track.Title + " — " + entry.Track.ArtistLine()
		}

		ago := ""
		if !entry.SeenAt.IsZero() {
			ago = humanize.Time(entry.SeenAt)
		}

		available := width - 2 - runewidth.StringWidth(ago) - 1
		label = Truncate(label, available)
		padding := available - runewidth.StringWidth(label) + 1
		if padding < 1 {
			padding = 1
		}

		if entry.Current {
			label = styles.Highlight.Render(label)
		}
		lines = append(lines, fmt.Sprintf("%s %s%*s%s", icon, label, padding, "", styles.Dim.Render(ago)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
