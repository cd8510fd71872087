package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jgoulah/tempcompare/internal/config"
	"github.com/jgoulah/tempcompare/internal/database"
	"github.com/jgoulah/tempcompare/internal/logging"
	"github.com/jgoulah/tempcompare/internal/series"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "tempcompare",
	Short: "Compare a day's temperature with the same calendar day in past years",
	Long: `tempcompare loads a daily temperature series (date, tmin, tmax), merges any
supplementary data you have imported, and reports how a chosen day's mean
temperature compares with the average of that calendar day across all years.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file for imported data (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newLogger builds the diagnostic logger; --log-level wins over the config
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// setup loads config and logger, the first step of every command
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadBaseline performs the one explicit baseline load
func loadBaseline(cfg *config.Config, logger *slog.Logger) (series.Series, error) {
	start := time.Now()
	path := cfg.GetBaselinePath()

	s, err := series.LoadFile(path, cfg.LoaderOptions())
	if err != nil {
		return series.Series{}, fmt.Errorf("loading baseline: %w", err)
	}

	logger.Debug("baseline loaded", "path", path, "records", s.Len(), "took", time.Since(start))
	return s, nil
}

// buildSeries returns the working series: baseline, then stored imports,
// then the optional extra file, each laid over the previous
func buildSeries(cfg *config.Config, db *database.DB, extraPath string, logger *slog.Logger) (series.Series, error) {
	s, err := loadBaseline(cfg, logger)
	if err != nil {
		return series.Series{}, err
	}

	stored, err := db.ListRecords()
	if err != nil {
		return series.Series{}, fmt.Errorf("loading stored records: %w", err)
	}
	if len(stored) > 0 {
		s = series.Merge(s, stored)
		logger.Debug("merged stored records", "records", len(stored), "total", s.Len())
	}

	if extraPath != "" {
		s, err = series.MergeFile(s, extraPath, cfg.LoaderOptions())
		if err != nil {
			return series.Series{}, fmt.Errorf("merging %s: %w", extraPath, err)
		}
		logger.Debug("merged extra file", "path", extraPath, "total", s.Len())
	}

	return s, nil
}

func warn(w io.Writer, err error) {
	fmt.Fprintf(w, "⚠ %v\n", err)
}
