package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var importsReset bool

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "Show or clear the import log",
	Long:  `Lists previous imports, newest first. With --reset, deletes all imported data.`,
	Args:  cobra.NoArgs,
	RunE:  runImports,
}

func init() {
	importsCmd.Flags().BoolVar(&importsReset, "reset", false, "Delete all imported records and the import log")
	rootCmd.AddCommand(importsCmd)
}

func runImports(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()

	if importsReset {
		if err := db.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Imported data cleared")
		return nil
	}

	imports, err := db.ListImports()
	if err != nil {
		return fmt.Errorf("listing imports: %w", err)
	}
	if len(imports) == 0 {
		fmt.Fprintln(out, "No imports yet")
		return nil
	}

	for _, imp := range imports {
		fmt.Fprintf(out, "%s  %-8s  %6s records  %s\n",
			imp.ImportedAt.Local().Format("2006-01-02 15:04"), imp.ID[:8], humanize.Comma(int64(imp.Rows)), imp.Source)
	}
	return nil
}
