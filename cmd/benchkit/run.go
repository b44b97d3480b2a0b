package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"benchkit/internal/harness"
	"benchkit/internal/history"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Swapped in tests.
var newHarnessFunc = newHarness
var newStoreFunc = func(path string) (history.Store, error) {
	return history.NewSQLiteStore(path)
}

func newRunCmd() *cobra.Command {
	var (
		multiplier float64
		asJSON     bool
		save       bool
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:   "run [key=value ...]",
		Short: "Run the benchmark suite once and print the report",
		Long: `Runs every registered benchmark in order and prints the structured
report. Options recognized by the harness are passed as key=value
arguments; unknown keys are ignored. The multiplier scales every
workload's iteration count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("multiplier") {
				args = append(args, "multiplier="+strconv.FormatFloat(multiplier, 'f', -1, 64))
			}

			report, err := newHarnessFunc().RunArgs(args)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				printReport(cmd, report)
			}

			if save {
				store, err := newStoreFunc(dbPath)
				if err != nil {
					return fmt.Errorf("failed to open history: %w", err)
				}
				defer store.Close()
				if err := store.Save(report); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nRun saved to %s\n", dbPath)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&multiplier, "multiplier", "m", 1.0, "Scale factor for workload iteration counts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the report to run history")
	cmd.Flags().StringVar(&dbPath, "db", ".benchkit/history.db", "Run history database path")
	return cmd
}

func printReport(cmd *cobra.Command, report *harness.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchkit %s on %s/%s (multiplier %g)\n\n",
		report.Info.Version, report.Info.Platform, report.Info.Arch, report.Info.Multiplier)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "BENCHMARK\tSTATUS\tRESULT\tTIME")
	for _, e := range report.Benchmarks {
		status, result := formatOutcome(e.Outcome)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4fs\n", e.Name, status, result, e.Outcome.Seconds)
	}
	w.Flush()

	if len(report.Extra) > 0 {
		fmt.Fprintln(out)
		for _, s := range report.Extra {
			fmt.Fprintf(out, "%s = %g\n", s.Name, s.Value)
		}
	}

	fmt.Fprintf(out, "\nTOTAL %.4fs, peak memory %d bytes\n",
		report.Totals.TotalTimeSeconds, report.Totals.PeakMemory)
}

func formatOutcome(o harness.Outcome) (status, result string) {
	switch {
	case o.Skipped:
		return skipStyle.Render("SKIP"), "-"
	case o.Error != "":
		return failStyle.Render("FAIL"), o.Error
	case o.Value == nil:
		return okStyle.Render("OK"), "-"
	default:
		return okStyle.Render("OK"), strconv.FormatFloat(*o.Value, 'g', 6, 64)
	}
}
