package main

import (
	"fmt"
	"os"

	"github.com/jgoulah/tempcompare/internal/config"
	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initBaseline string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Writes a config file with every setting at its default so it can be edited
in place. The file goes to --config (default ./config.yaml). An existing file is
left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVar(&initBaseline, "baseline", "", "Baseline CSV path to record in the config")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Starter()
	if initBaseline != "" {
		cfg.BaselinePath = initBaseline
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
