package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jgoulah/tempcompare/internal/publisher"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/spf13/cobra"
)

var (
	publishDate          string
	publishExtra         string
	publishExcludeTarget bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a comparison to MQTT",
	Long: `Runs the same comparison as 'compare' and publishes the result as a retained
JSON message on <topic_prefix>/comparison/<MM-DD>.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishDate, "date", "", "Date to compare (YYYY-MM-DD, default: latest in series)")
	publishCmd.Flags().StringVar(&publishExtra, "extra", "", "Supplementary CSV merged over the series for this run only")
	publishCmd.Flags().BoolVar(&publishExcludeTarget, "exclude-target", false, "Leave the selected year out of the historical mean")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	s, err := buildSeries(cfg, db, publishExtra, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	cmp, err := series.CompareInput(s, publishDate, series.CompareOptions{ExcludeTarget: publishExcludeTarget})
	if series.IsNoData(err) {
		warn(out, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pub.Publish(ctx, cmp); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	fmt.Fprintf(out, "✓ Published %s (%s vs %s, %s) to %s\n",
		cmp.Target.Date.Format("2006-01-02"),
		series.FormatTemp(cmp.Target.TMean), series.FormatTemp(cmp.HistoricalMean), series.FormatDelta(cmp.Deviation),
		pub.Topic(cmp.Key))
	return nil
}
