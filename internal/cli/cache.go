package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/dedup"
)

var cacheLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the played-track cache",
	Long: `The played-track cache stops the service from serving the same track
twice. Entries expire after cache.ttl hours.`,
}

var cacheListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cached track IDs",
	RunE:    runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every cached track",
	RunE:  runCacheClear,
}

func init() {
	cacheListCmd.Flags().IntVarP(&cacheLimit, "limit", "n", 0, "show only the most recent n entries")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	entries, err := rt.Cache.Entries()
	if err != nil {
		return err
	}
	entries = lastEntries(entries, cacheLimit)

	out := cmd.OutOrStdout()
	if Structured() {
		if entries == nil {
			entries = []dedup.Entry{}
		}
		return writeStructured(out, entries)
	}

	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "Cache is empty")
		return nil
	}

	table := NewTableWriter(out, "ID", "PLAYED")
	for _, e := range entries {
		table.Row(e.ID, humanize.Time(e.PlayedAt))
	}
	table.Flush()
	_, _ = fmt.Fprintf(out, "\n%s cached\n", humanize.Comma(int64(len(entries))))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(true)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Cache.Clear(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, map[string]string{"status": "cleared"})
	}
	_, _ = fmt.Fprintln(out, "Cache cleared")
	return nil
}

func lastEntries(entries []dedup.Entry, n int) []dedup.Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
