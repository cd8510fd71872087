package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/spf13/cobra"
)

var (
	compareDate          string
	compareExtra         string
	compareExcludeTarget bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a date's mean temperature with its historical average",
	Long: `Selects a date (the latest one by default) and compares its mean temperature
with the mean of the same calendar day across every year in the series.

The selected year counts toward its own historical average unless
--exclude-target is given.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareDate, "date", "", "Date to compare (YYYY-MM-DD, default: latest in series)")
	compareCmd.Flags().StringVar(&compareExtra, "extra", "", "Supplementary CSV merged over the series for this run only")
	compareCmd.Flags().BoolVar(&compareExcludeTarget, "exclude-target", false, "Leave the selected year out of the historical mean")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	s, err := buildSeries(cfg, db, compareExtra, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	cmp, err := series.CompareInput(s, compareDate, series.CompareOptions{ExcludeTarget: compareExcludeTarget})
	if series.IsNoData(err) {
		warn(out, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	printComparison(out, cmp)
	return nil
}

func printComparison(w io.Writer, c series.Comparison) {
	fmt.Fprintf(w, "Mean temperature on %s:   %s\n", c.Target.Date.Format("2006-01-02"), series.FormatTemp(c.Target.TMean))
	fmt.Fprintf(w, "Historical mean for %s:         %s (%d years)\n", c.Key, series.FormatTemp(c.HistoricalMean), c.Samples)
	fmt.Fprintf(w, "Difference:                       %s\n", series.FormatDelta(c.Deviation))

	fmt.Fprintf(w, "\n%s by year:\n", c.Key)
	fmt.Fprintln(w, strings.Repeat("-", 44))
	fmt.Fprintf(w, "%-16s  %10s  %12s\n", "Date", "Mean", "vs. average")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	for _, r := range c.SameDay {
		label := r.Date.Format("2006-01-02")
		if r.Date.Equal(c.Target.Date) {
			label += " *"
		}
		fmt.Fprintf(w, "%-16s  %10s  %12s\n", label, series.FormatTemp(r.TMean), series.FormatDelta(r.TMean-c.HistoricalMean))
	}
	fmt.Fprintln(w, strings.Repeat("-", 44))
	fmt.Fprintf(w, "%-16s  %10s\n", "Historical mean", series.FormatTemp(c.HistoricalMean))
}
