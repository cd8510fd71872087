package main

import (
	"bytes"
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/jgoulah/tempcompare/internal/source"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download supplementary data and import it",
	Long: `Downloads a CSV export over HTTP and stores its records like 'import' does.
The URL defaults to source.url from the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	url := cfg.Source.URL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		return fmt.Errorf("no URL given and source.url is not set in config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Fetching %s...\n", url)
	body, err := source.NewFetcher(cfg.GetSourceTimeout()).Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	logger.Debug("download complete", "url", url, "size", humanize.Bytes(uint64(len(body))))

	records, err := series.Parse(bytes.NewReader(body), cfg.LoaderOptions())
	if err != nil {
		return fmt.Errorf("parsing supplementary data: %w", err)
	}
	// Collapse duplicate dates inside the download before storing
	incoming := series.New(records)

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	imp, err := db.UpsertRecords(incoming.Records(), url)
	if err != nil {
		return fmt.Errorf("storing records: %w", err)
	}
	logger.Info("import stored", "id", imp.ID, "source", imp.Source, "records", imp.Rows)

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Stored %s records\n", humanize.Comma(int64(imp.Rows)))
	return nil
}
