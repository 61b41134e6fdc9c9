package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/driveline/placetrack/internal/analytics"
	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		status  string
		queued  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked drives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, status, queued, summary)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by drive status (upcoming, ongoing, finished)")
	cmd.Flags().BoolVar(&queued, "queued", false, "only drives waiting for an extraction retry")
	cmd.Flags().BoolVar(&summary, "summary", false, "print aggregate figures instead of the table")
	return cmd
}

func runList(cmd *cobra.Command, status string, queued, summary bool) error {
	out := cmd.OutOrStdout()

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	drives, err := store.ListDrives(a.db)
	if err != nil {
		return err
	}

	if summary {
		printSummary(cmd, analytics.Summarize(drives))
		return nil
	}

	var rows []models.Drive
	for _, d := range drives {
		if status != "" && d.Status != status {
			continue
		}
		if queued && !d.QueuedForRetry {
			continue
		}
		rows = append(rows, d)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No drives found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tROLE\tSTATUS\tREGISTERED\tPARSE\tQUEUED")
	for _, d := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.CompanyName, d.Role, d.Status,
			yesNo(d.RegistrationStatus == models.Registered),
			d.ParseStatus, yesNo(d.QueuedForRetry))
	}
	return w.Flush()
}

func printSummary(cmd *cobra.Command, s analytics.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Registered drives: %d (selected in %d)\n", s.Total, s.Selected)

	statuses := make([]string, 0, len(s.StatusCounts))
	for st := range s.StatusCounts {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	for _, st := range statuses {
		fmt.Fprintf(out, "  %-10s %d\n", st, s.StatusCounts[st])
	}

	if len(s.Timeline) > 0 {
		fmt.Fprintln(out, "Timeline:")
		for _, p := range s.Timeline {
			fmt.Fprintf(out, "  %s  added %d, finished %d\n", p.Date, p.Added, p.Finished)
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
