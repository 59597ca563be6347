package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the saved query history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved queries, newest first",
	Long: `Show saved queries, newest first.

Examples:
  lazydb history list             # everything that was kept
  lazydb history list --limit 10  # the last 10 queries
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer store.Close()

		entries, err := store.LoadHistory(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No query history")
			return nil
		}
		printHistory(cmd, entries)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := setup()
		if err != nil {
			return err
		}
		defer logger.Close()
		defer store.Close()

		if err := store.ClearHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Query history cleared")
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of entries (0 = all)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func printHistory(cmd *cobra.Command, entries []history.Entry) {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	for _, e := range entries {
		status := green.Sprint("✓")
		detail := fmt.Sprintf("%d rows, %s", e.RowCount, e.Duration)
		if !e.Success {
			status = red.Sprint("✗")
			detail = e.ErrorMessage
		}
		fmt.Fprintf(out, "%s %s  %s/%s  %s\n",
			status,
			dim.Sprint(e.ExecutedAt.Local().Format("2006-01-02 15:04:05")),
			e.ConnectionName, e.DatabaseName,
			dim.Sprint(detail),
		)
		fmt.Fprintf(out, "    %s\n", strings.ReplaceAll(strings.TrimSpace(e.Query), "\n", "\n    "))
	}
}
