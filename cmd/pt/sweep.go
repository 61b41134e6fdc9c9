package main

import (
	"fmt"

	"github.com/driveline/placetrack/internal/store"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Retry extraction for queued drives",
		Long: `Runs one pass over all drives flagged for retry, re-attempting
extraction one drive at a time with a cooldown in between. A drive that
fails again simply stays queued.`,
		RunE: runSweep,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	before, err := store.QueuedDrives(a.db)
	if err != nil {
		return err
	}
	if len(before) == 0 {
		fmt.Fprintln(out, "Nothing queued.")
		return nil
	}

	if err := a.sweeper().Sweep(cmd.Context()); err != nil {
		return err
	}

	after, err := store.QueuedDrives(a.db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Swept %d drive(s); %d still queued.\n", len(before), len(after))
	return nil
}
