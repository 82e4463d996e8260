package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/core"
)

var (
	nextAction string
	nextLang   string
	nextMark   bool
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Fetch the next recommendation without playing it",
	Long: `Ask the content service for the next track, re-rolling repeats the same
way the player does. Without --lang the current best language is sent.

Examples:
  wavehook next
  wavehook next --action liked --lang tamil
  wavehook next --mark -o json`,
	RunE: runNext,
}

var trackCmd = &cobra.Command{
	Use:   "track <id>",
	Short: "Look up a track by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrack,
}

func init() {
	nextCmd.Flags().StringVarP(&nextAction, "action", "a", string(core.ActionSkip), "feedback to send: skip, liked or skipped")
	nextCmd.Flags().StringVarP(&nextLang, "lang", "l", "", "preferred language (default: best scored)")
	nextCmd.Flags().BoolVar(&nextMark, "mark", false, "add the result to the played cache")

	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(trackCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	action := core.Action(strings.ToLower(nextAction))
	if !action.Valid() {
		return fmt.Errorf("invalid action %q (want skip, liked or skipped)", nextAction)
	}

	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	lang := nextLang
	if lang == "" {
		if lang, err = rt.Prefs.Hint(); err != nil {
			return err
		}
	}

	track, _, err := rt.Acquirer.RequestNext(cmd.Context(), action, lang)
	if err != nil {
		return err
	}

	if nextMark {
		if err := rt.Cache.Mark(track.ID); err != nil {
			return fmt.Errorf("failed to update played cache: %w", err)
		}
	}

	return printTrack(cmd.OutOrStdout(), track)
}

func runTrack(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	track, err := rt.Acquirer.RequestByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printTrack(cmd.OutOrStdout(), track)
}

func printTrack(out io.Writer, t *core.Track) error {
	if Structured() {
		return writeStructured(out, t)
	}

	_, _ = fmt.Fprintf(out, "%s\n", t.Title)
	_, _ = fmt.Fprintf(out, "  by %s\n", t.ArtistLine())
	_, _ = fmt.Fprintf(out, "  id:       %s\n", t.ID)
	_, _ = fmt.Fprintf(out, "  language: %s\n", t.LanguageOrUnknown())
	_, _ = fmt.Fprintf(out, "  hooks:    %s\n", strings.Join(t.Hooks, ", "))
	if Verbose() {
		_, _ = fmt.Fprintf(out, "  audio:    %s\n", t.AudioURL())
		_, _ = fmt.Fprintf(out, "  cover:    %s\n", t.CoverURL())
	}
	return nil
}
