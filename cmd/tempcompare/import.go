package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a supplementary CSV into the local database",
	Long: `Parses a CSV in the same format as the baseline and stores its records.
Dates that are already stored are overwritten. If any row is malformed
nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	incoming, err := series.LoadFile(path, cfg.LoaderOptions())
	if err != nil {
		return fmt.Errorf("parsing supplementary data: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	imp, err := db.UpsertRecords(incoming.Records(), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("storing records: %w", err)
	}
	logger.Info("import stored", "id", imp.ID, "source", imp.Source, "records", imp.Rows)

	total, err := db.CountRecords()
	if err != nil {
		return fmt.Errorf("counting records: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s records from %s (%s stored in total)\n",
		humanize.Comma(int64(imp.Rows)), path, humanize.Comma(int64(total)))
	return nil
}
