package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/history"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show every track ever freshly acquired",
	Long: `Show the all-time played log, oldest first. Back and forward navigation
history only lives for one session and is not shown here.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show only the most recent n tracks (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "clear the played log")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	out := cmd.OutOrStdout()

	if historyClear {
		if err := history.ClearPlayed(rt.Store); err != nil {
			return err
		}
		if Structured() {
			return writeStructured(out, map[string]string{"status": "cleared"})
		}
		_, _ = fmt.Fprintln(out, "History cleared")
		return nil
	}

	played, err := history.Played(rt.Store)
	if err != nil {
		return err
	}
	total := len(played)
	if historyLimit > 0 && historyLimit < total {
		played = played[total-historyLimit:]
	}

	if Structured() {
		if played == nil {
			played = []string{}
		}
		return writeStructured(out, map[string]any{
			"total":  total,
			"tracks": played,
		})
	}

	if total == 0 {
		_, _ = fmt.Fprintln(out, "Nothing played yet")
		return nil
	}

	offset := total - len(played)
	for i, id := range played {
		_, _ = fmt.Fprintf(out, "%s  %s\n", humanize.Ordinal(offset+i+1), id)
	}
	if offset > 0 {
		_, _ = fmt.Fprintf(out, "\n%s earlier tracks not shown\n", humanize.Comma(int64(offset)))
	}
	return nil
}
