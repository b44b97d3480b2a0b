package main

import (
	"fmt"
	"text/tabwriter"

	"benchkit/internal/history"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and compare saved benchmark runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", ".benchkit/history.db", "Run history database path")

	cmd.AddCommand(newHistoryListCmd(&dbPath))
	cmd.AddCommand(newHistoryCompareCmd(&dbPath))
	return cmd
}

func newHistoryListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFunc(*dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tBENCHMARKS\tMULTIPLIER\tTOTAL")
			for _, run := range runs {
				fmt.Fprintf(w, "%d\t%s\t%d\t%g\t%.4fs\n",
					run.ID,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					len(run.Report.Benchmarks),
					run.Report.Info.Multiplier,
					run.Report.Totals.TotalTimeSeconds,
				)
			}
			return w.Flush()
		},
	}
}

func newHistoryCompareCmd(dbPath *string) *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two most recent runs",
		Long: `Diffs per-benchmark elapsed time between the last two saved runs and
flags entries slower than the threshold percentage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFunc(*dbPath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(runs) < 2 {
				return fmt.Errorf("need at least two saved runs, have %d", len(runs))
			}

			prev, curr := runs[len(runs)-2], runs[len(runs)-1]
			comps := history.Compare(&prev.Report, &curr.Report)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "BENCHMARK\tPREV\tCURR\tDIFF\tSTATUS")
			for _, c := range comps {
				if c.New {
					fmt.Fprintf(w, "%s\t-\t%.4fs\t-\tNEW\n", c.Name, c.CurrSeconds)
					continue
				}
				if c.Missing {
					fmt.Fprintf(w, "%s\t%.4fs\t-\t-\tMISSING\n", c.Name, c.PrevSeconds)
					continue
				}
				status := okStyle.Render("PASS")
				if c.DiffPercent > threshold {
					status = failStyle.Render("SLOWER")
				} else if c.DiffPercent < -threshold {
					status = okStyle.Render("FASTER")
				}
				fmt.Fprintf(w, "%s\t%.4fs\t%.4fs\t%+.2f%%\t%s\n",
					c.Name, c.PrevSeconds, c.CurrSeconds, c.DiffPercent, status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 10.0, "Percentage threshold for regression warning")
	return cmd
}
