package main

import (
	"fmt"
	"os"

	"github.com/driveline/placetrack/internal/csvio"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all drives and rounds to CSV",
		Long:  "Writes the whole tracker to a CSV file. The file name defaults to a timestamped Placement_Tracker_DB_*.csv in the working directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := csvio.FileName()
	if len(args) == 1 {
		path = args[0]
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := csvio.Export(a.db, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported to %s\n", path)
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import drives and rounds from a CSV export",
		Long:  "Replays a previously exported CSV into the database. Imported rows get fresh IDs and are added alongside existing drives.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	drives, rounds, err := csvio.Import(a.db, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d drive(s) and %d round(s)\n", drives, rounds)
	return nil
}
