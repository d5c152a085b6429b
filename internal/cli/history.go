package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/ccw/internal/history"
	"github.com/dshills/ccw/internal/review"
)

var (
	flagHistoryMode  string
	flagHistoryLimit int
	flagOlderThan    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded runs",
	Long:  "Runs are recorded when history is enabled (--history or history.enabled).",
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfig(cmd.Flags().Changed)
	if err != nil {
		return nil, err
	}
	return history.Open(cmd.Context(), cfg.History.Path)
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory(cmd)
		if err != nil {
			fail(err)
			return nil
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), flagHistoryMode, flagHistoryLimit)
		if err != nil {
			fail(err)
			return nil
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stdout, "No runs recorded.")
			return nil
		}
		fmt.Fprintln(os.Stdout, historyTable(runs, time.Now()))
		return nil
	},
}

func historyTable(runs []review.Result, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STARTED", "MODE", "STATUS", "SOURCE", "CONTEXT", "ELAPSED")
	for _, r := range runs {
		status := string(r.Status)
		if r.Cached {
			status += " (cached)"
		}
		t.Row(
			r.ID,
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			r.Mode,
			status,
			r.Source,
			humanize.Comma(int64(r.ContextWindow)),
			(time.Duration(r.ElapsedMs) * time.Millisecond).Round(time.Millisecond).String(),
		)
	}
	return t.String()
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory(cmd)
		if err != nil {
			fail(err)
			return nil
		}
		defer store.Close()

		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitUsageError
				return nil
			}
			fail(err)
			return nil
		}
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		store, err := openHistory(cmd)
		if err != nil {
			fail(err)
			return nil
		}
		defer store.Close()

		n, err := store.Prune(cmd.Context(), time.Now().Add(-flagOlderThan))
		if err != nil {
			fail(err)
			return nil
		}
		fmt.Fprintf(os.Stdout, "Pruned %d runs.\n", n)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyListCmd.Flags().StringVar(&flagHistoryMode, "mode", "", "Only list runs of this mode")
	historyListCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Maximum runs to list")
	historyPruneCmd.Flags().DurationVar(&flagOlderThan, "older-than", 30*24*time.Hour, "Age beyond which runs are deleted")
}
