package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/wavehook/internal/prefs"
)

// KnownLanguages are offered in the onboarding picker.
var KnownLanguages = []string{
	"hindi",
	"punjabi",
	"english",
	"tamil",
	"telugu",
	"bengali",
	"marathi",
	"gujarati",
	"kannada",
	"malayalam",
}

// RunLanguagePicker asks which languages the user wants to hear.
// Selecting "all" (or nothing) means no preference.
func RunLanguagePicker() ([]string, error) {
	options := []huh.Option[string]{huh.NewOption("Any language", prefs.AllLanguages)}
	for _, l := range KnownLanguages {
		options = append(options, huh.NewOption(titleCase(l), l))
	}

	var selected []string
	var extra string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("What do you want to listen to?").
				Description("Picked languages start with a head start; your swipes tune the rest.").
				Options(options...).
				Value(&selected),
			huh.NewInput().
				Title("Other languages").
				Description("Comma separated, optional").
				Value(&extra),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return NormalizeLanguages(append(selected, strings.Split(extra, ",")...)), nil
}

// NormalizeLanguages lower-cases, trims and de-duplicates language tags.
// Any "all" entry collapses the result to just "all".
func NormalizeLanguages(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range in {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		if l == prefs.AllLanguages {
			return []string{prefs.AllLanguages}
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
