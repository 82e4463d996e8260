package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/engine"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/prefs"
	"github.com/tessro/wavehook/internal/wizard"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard [language...]",
	Short: "Choose the languages you want to hear",
	Long: `Choose starting languages. Each picked language starts with a higher
preference score than unseen ones; "all" starts everyone equal.

Without arguments an interactive picker is shown.

Examples:
  wavehook onboard
  wavehook onboard hindi punjabi
  wavehook onboard all`,
	RunE: runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	langs := wizard.NormalizeLanguages(args)
	if len(args) == 0 {
		picked, ok, err := wizard.NewInteractive().PromptLanguages()
		if err != nil {
			return err
		}
		if !ok {
			return errors.WithSuggestion(
				fmt.Errorf("no languages given and no terminal to prompt on"),
				"Pass languages as arguments, e.g. 'wavehook onboard hindi english'")
		}
		langs = picked
	}

	if err := rt.Prefs.Pin(langs); err != nil {
		return fmt.Errorf("failed to save languages: %w", err)
	}
	return printOnboarded(cmd, langs)
}

// ensureOnboarded runs the language picker when no preference exists yet.
func ensureOnboarded(rt *engine.Runtime) error {
	done, err := rt.Prefs.Onboarded()
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	langs, ok, err := wizard.NewInteractive().PromptLanguages()
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrOnboardingRequired
	}
	return rt.Prefs.Pin(langs)
}

func printOnboarded(cmd *cobra.Command, langs []string) error {
	out := cmd.OutOrStdout()
	if len(langs) == 0 {
		langs = []string{prefs.AllLanguages}
	}
	if Structured() {
		return writeStructured(out, map[string]any{
			"status":    "onboarded",
			"languages": langs,
		})
	}

	if langs[0] == prefs.AllLanguages {
		_, _ = fmt.Fprintln(out, "Listening to all languages")
	} else {
		_, _ = fmt.Fprintf(out, "Listening to: %s\n", strings.Join(langs, ", "))
	}
	_, _ = fmt.Fprintln(out, "Run 'wavehook play' to start swiping")
	return nil
}
