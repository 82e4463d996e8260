package components

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/wavehook/internal/prefs"
	"github.com/tessro/wavehook/internal/tui/styles"
)

// Prefs displays the per-language preference scores
type Prefs struct{}

// NewPrefs creates a new Prefs component
func NewPrefs() *Prefs {
	return &Prefs{}
}

// Render renders the preferences panel. best is highlighted.
func (p *Prefs) Render(scores map[string]int, best string, width, height int, focused bool) string {
	title := styles.PanelTitle("Languages", focused)

	var content string
	if len(scores) == 0 {
		content = styles.Muted.Render("No preference yet")
	} else {
		content = p.renderScores(scores, best, width-4, height-4)
	}

	return styles.Panel(focused).
		Width(width).
		Height(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", content))
}

func (p *Prefs) renderScores(scores map[string]int, best string, width, maxLines int) string {
	langs := make([]string, 0, len(scores))
	for l := range scores {
		langs = append(langs, l)
	}
	// Highest first, then by name.
	sort.Slice(langs, func(i, j int) bool {
		if scores[langs[i]] != scores[langs[j]] {
			return scores[langs[i]] > scores[langs[j]]
		}
		return langs[i] < langs[j]
	})

	nameWidth := width - prefs.MaxScore - 6
	if nameWidth < 6 {
		nameWidth = 6
	}

	lines := make([]string, 0, len(langs))
	for _, lang := range langs {
		if len(lines) >= maxLines {
			break
		}
		name := fmt.Sprintf("%-*s", nameWidth, Truncate(lang, nameWidth))
		if lang == best {
			name = styles.Highlight.Render(name)
		}
		lines = append(lines, fmt.Sprintf("%s %s %2d", name, styles.ScoreBar(scores[lang], prefs.MaxScore), scores[lang]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
