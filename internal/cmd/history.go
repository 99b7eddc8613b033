package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/qbc/internal/history"
	"github.com/harrison/qbc/internal/logger"
	"github.com/harrison/qbc/internal/models"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the 'qbc history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversion batches",
		Long: `Show the conversion batches recorded in the run history database.

Without --run, the most recent batches are listed newest first.
With --run, every file of one batch is listed with its outcome.

Examples:
  qbc history
  qbc history --limit 5
  qbc history --run 3f0c2a4e-6c1b-4b8e-9a53-2f1d7e0c9b11`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of batches to list (0 = all)")
	cmd.Flags().String("run", "", "Show the files of one batch by run ID")
	cmd.Flags().String("config", "", "Path to config file (default: .qbc/config.yaml)")

	return cmd
}

// runHistory executes the history command
func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")

	dbPath := cfg.History.DBPath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No conversion history found.\n")
		fmt.Fprintf(out, "Database path: %s\n", dbPath)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	colors := newHistoryColors(logger.IsTerminal(out))

	if runID != "" {
		run, err := store.GetRun(cmd.Context(), runID)
		if err != nil {
			return err
		}
		files, err := store.GetRunFiles(cmd.Context(), runID)
		if err != nil {
			return err
		}
		printRunFiles(out, run, files, colors)
		return nil
	}

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No conversion history found.\n")
		return nil
	}
	printRuns(out, runs, colors)
	return nil
}

type historyColors struct {
	header *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
}

func newHistoryColors(enabled bool) *historyColors {
	hc := &historyColors{
		header: color.New(color.FgCyan, color.Bold),
		ok:     color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
	for _, c := range []*color.Color{hc.header, hc.ok, hc.warn, hc.fail} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return hc
}

func (hc *historyColors) status(s models.Status) *color.Color {
	switch s {
	case models.StatusConverted:
		return hc.ok
	case models.StatusSkipped:
		return hc.warn
	default:
		return hc.fail
	}
}

// printRuns formats the batch list as a table
func printRuns(w io.Writer, runs []*history.Run, colors *historyColors) {
	colors.header.Fprintf(w, "%-36s  %-19s  %-9s  %5s  %9s  %7s  %6s  %9s\n",
		"RUN ID", "STARTED", "DIRECTION", "TOTAL", "CONVERTED", "SKIPPED", "FAILED", "DURATION")

	for _, run := range runs {
		line := fmt.Sprintf("%-36s  %-19s  %-9s  %5d  %9d  %7d  %6d  %8.1fs\n",
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Direction,
			run.Total,
			run.Converted,
			run.Skipped,
			run.Failed,
			run.Duration.Seconds())
		if run.Failed > 0 {
			colors.fail.Fprint(w, line)
		} else {
			fmt.Fprint(w, line)
		}
	}
}

// printRunFiles prints one batch and the outcome of each of its files
func printRunFiles(w io.Writer, run *history.Run, files []*history.FileRecord, colors *historyColors) {
	colors.header.Fprintf(w, "=== Run %s ===\n", run.RunID)
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Direction:   %s\n", run.Direction)
	fmt.Fprintf(w, "Output root: %s\n", run.OutputRoot)
	fmt.Fprintf(w, "Files:       %d (converted %d, skipped %d, failed %d)\n",
		run.Total, run.Converted, run.Skipped, run.Failed)
	fmt.Fprintf(w, "Duration:    %.1fs\n\n", run.Duration.Seconds())

	for _, f := range files {
		colors.status(f.Status).Fprintf(w, "%-9s", f.Status)
		switch {
		case f.Reason != "":
			fmt.Fprintf(w, " %s: %s\n", f.SourcePath, f.Reason)
		case f.OutputPath != "":
			fmt.Fprintf(w, " %s -> %s\n", f.SourcePath, f.OutputPath)
		default:
			fmt.Fprintf(w, " %s\n", f.SourcePath)
		}
	}
}
