package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/spf13/cobra"
)

var (
	listSince string
	listUntil string
	listExtra string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the merged temperature series",
	Long:  `Displays the baseline series with imported data merged over it.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSince, "since", "", "Only show data since this date (YYYY-MM-DD or relative like 7d)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only show data until this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listExtra, "extra", "", "Supplementary CSV merged over the series for this run only")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	var since, until time.Time
	var err error
	if listSince != "" {
		if since, err = parseDate(listSince, time.Now()); err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
	}
	if listUntil != "" {
		if until, err = parseDate(listUntil, time.Now()); err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	s, err := buildSeries(cfg, db, listExtra, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	records := s.Range(since, until)
	if len(records) == 0 {
		fmt.Fprintln(out, "No data found")
		return nil
	}

	fmt.Fprintln(out, strings.Repeat("-", 48))
	fmt.Fprintf(out, "%-12s  %10s  %10s  %10s\n", "Date", "Min", "Max", "Mean")
	fmt.Fprintln(out, strings.Repeat("-", 48))
	for _, r := range records {
		fmt.Fprintf(out, "%-12s  %10s  %10s  %10s\n", r.Date.Format("2006-01-02"), series.FormatTemp(r.TMin), series.FormatTemp(r.TMax), series.FormatTemp(r.TMean))
	}
	fmt.Fprintln(out, strings.Repeat("-", 48))
	fmt.Fprintf(out, "%s records (%s in series)\n", humanize.Comma(int64(len(records))), humanize.Comma(int64(s.Len())))

	return nil
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string, now time.Time) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	// Relative format, e.g. "7d" for 7 days ago
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(dateStr[:len(dateStr)-1], "%d", &days); err == nil {
			y, m, d := now.AddDate(0, 0, -days).Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
