package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/prefs"
	"github.com/tessro/wavehook/internal/wizard"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and edit language preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show language scores",
	RunE:  runPrefsShow,
}

var prefsPinCmd = &cobra.Command{
	Use:   "pin <language...>",
	Short: "Replace scores with a fresh set of favourite languages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrefsPin,
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all scores and onboarding",
	RunE:  runPrefsReset,
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsPinCmd)
	prefsCmd.AddCommand(prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

type scoreRow struct {
	Language string `json:"language" yaml:"language"`
	Score    int    `json:"score" yaml:"score"`
}

type prefsView struct {
	Onboarded bool       `json:"onboarded" yaml:"onboarded"`
	Best      string     `json:"best,omitempty" yaml:"best,omitempty"`
	Scores    []scoreRow `json:"scores" yaml:"scores"`
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	onboarded, err := rt.Prefs.Onboarded()
	if err != nil {
		return err
	}
	scores, err := rt.Prefs.Scores()
	if err != nil {
		return err
	}
	best, _, err := rt.Prefs.BestLanguage()
	if err != nil {
		return err
	}

	view := prefsView{Onboarded: onboarded, Best: best, Scores: sortScores(scores)}

	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, view)
	}

	if !onboarded {
		_, _ = fmt.Fprintln(out, "Not onboarded yet. Run 'wavehook onboard'.")
		return nil
	}
	if len(view.Scores) == 0 {
		_, _ = fmt.Fprintln(out, "No language scores yet. All languages are equal.")
		return nil
	}

	table := NewTableWriter(out, "LANGUAGE", "SCORE", "")
	for _, r := range view.Scores {
		marker := ""
		if r.Language == best {
			marker = " ★"
		}
		table.Row(r.Language, fmt.Sprintf("%2d", r.Score), ScoreBar(r.Score, prefs.MaxScore)+marker)
	}
	table.Flush()
	return nil
}

func runPrefsPin(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	langs := wizard.NormalizeLanguages(args)
	if err := rt.Prefs.Pin(langs); err != nil {
		return err
	}
	return printOnboarded(cmd, langs)
}

func runPrefsReset(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Prefs.Reset(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, map[string]string{"status": "reset"})
	}
	_, _ = fmt.Fprintln(out, "Preferences cleared")
	return nil
}

// sortScores orders by score, highest first, then by name.
func sortScores(scores map[string]int) []scoreRow {
	rows := make([]scoreRow, 0, len(scores))
	for l, s := range scores {
		rows = append(rows, scoreRow{Language: l, Score: s})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Language < rows[j].Language
	})
	return rows
}
