package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/scaffctl/internal/journal"
	"github.com/kjourdan1/scaffctl/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past scaffctl runs",
	Long: `Displays the run journal written by scaffctl in JSONL format.

The journal lives in $XDG_STATE_HOME/scaffctl/journal.log (override the
directory with SCAFFCTL_STATE_DIR). Use --operation to keep only one
subcommand, for example --operation generate.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyOperation string
	historyLimit     int
)

func init() {
	historyCmd.Flags().StringVar(&historyOperation, "operation", "", "filter by subcommand")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max number of events to display")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	events, err := journal.Read()
	if err != nil {
		return output.WrapError(err, "reading the run journal")
	}
	events = journal.Tail(events, historyOperation, historyLimit)

	if jsonOutput {
		output.JSON(events)
		return nil
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stderr, "No journal events found.")
		return nil
	}

	bold := color.New(color.Bold)
	bold.Fprintln(os.Stderr, "📜 scaffctl history")
	for _, event := range events {
		status := color.New(color.FgGreen)
		if event.Result != "success" {
			status = color.New(color.FgRed)
		}
		status.Fprintf(os.Stderr, "  %s", event.Result)
		fmt.Fprintf(os.Stderr, "  %s  op=%s", event.Timestamp, event.Operation)
		if dir := event.MetadataValue("templatesDir"); dir != "" {
			fmt.Fprintf(os.Stderr, "  templates=%s", dir)
		}
		if dir := event.MetadataValue("baseDir"); dir != "" {
			fmt.Fprintf(os.Stderr, "  out=%s", dir)
		}
		if event.MetadataValue("dryRun") == "true" {
			fmt.Fprint(os.Stderr, "  dry-run")
		}
		fmt.Fprintf(os.Stderr, "  exit=%d  duration=%dms\n", event.ExitCode, event.DurationMs)
	}

	return nil
}
