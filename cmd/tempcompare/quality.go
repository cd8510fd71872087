package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var qualityExtra string

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show missing-value counts per column",
	Args:  cobra.NoArgs,
	RunE:  runQuality,
}

func init() {
	qualityCmd.Flags().StringVar(&qualityExtra, "extra", "", "Supplementary CSV merged over the series for this run only")
	rootCmd.AddCommand(qualityCmd)
}

func runQuality(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	s, err := buildSeries(cfg, db, qualityExtra, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Missing values (%s records)\n", humanize.Comma(int64(s.Len())))
	for _, col := range s.MissingCounts().Columns() {
		fmt.Fprintf(out, "  %-6s %d\n", col.Column, col.Missing)
	}
	return nil
}
