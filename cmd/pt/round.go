package main

import (
	"errors"
	"fmt"

	"github.com/driveline/placetrack/internal/ingest"
	"github.com/driveline/placetrack/internal/models"
	"github.com/spf13/cobra"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Manage the rounds of a drive",
		Long: `Adds, edits and removes rounds by hand. Round numbers are kept
contiguous: giving a round an occupied number pushes it in front of the
round that held it.`,
	}

	cmd.AddCommand(newRoundAddCmd())
	cmd.AddCommand(newRoundEditCmd())
	cmd.AddCommand(newRoundRmCmd())
	return cmd
}

func newRoundAddCmd() *cobra.Command {
	var (
		name   string
		number int
		date   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "add <drive-id>",
		Short: "Add a round to a drive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoundAdd(cmd, args[0], name, number, date, status)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "round name (e.g. \"Online Assessment\")")
	cmd.Flags().IntVar(&number, "number", 0, "position in the process (default: appended at the end)")
	cmd.Flags().StringVar(&date, "date", "", "round date, DD-MM-YYYY HH:MM")
	cmd.Flags().StringVar(&status, "status", "", "round status (upcoming, finished)")
	return cmd
}

func runRoundAdd(cmd *cobra.Command, arg, name string, number int, date, status string) error {
	out := cmd.OutOrStdout()

	driveID, err := parseID(arg, "drive")
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	r := &models.Round{
		RoundNumber: number,
		RoundName:   name,
		RoundDate:   date,
		Status:      status,
	}
	id, err := ingest.AddRound(a.db, driveID, r)
	if errors.Is(err, ingest.ErrNotFound) {
		return fmt.Errorf("drive #%d not found", driveID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Added round #%d (%s) to drive #%d\n", id, r.RoundName, driveID)
	return nil
}

func newRoundEditCmd() *cobra.Command {
	var (
		name   string
		number int
		date   string
		status string
		result string
	)

	cmd := &cobra.Command{
		Use:   "edit <round-id>",
		Short: "Edit a round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]interface{}{}
			if cmd.Flags().Changed("name") {
				fields["round_name"] = name
			}
			if cmd.Flags().Changed("number") {
				fields["round_number"] = number
			}
			if cmd.Flags().Changed("date") {
				fields["round_date"] = date
			}
			if cmd.Flags().Changed("status") {
				fields["status"] = status
			}
			if cmd.Flags().Changed("result") {
				fields["result"] = result
			}
			return runRoundEdit(cmd, args[0], fields)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "round name")
	cmd.Flags().IntVar(&number, "number", 0, "position in the process")
	cmd.Flags().StringVar(&date, "date", "", "round date, DD-MM-YYYY HH:MM")
	cmd.Flags().StringVar(&status, "status", "", "round status (upcoming, finished)")
	cmd.Flags().StringVar(&result, "result", "", "round result (not_conducted, shortlisted, rejected)")
	return cmd
}

func runRoundEdit(cmd *cobra.Command, arg string, fields map[string]interface{}) error {
	out := cmd.OutOrStdout()

	roundID, err := parseID(arg, "round")
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to change (pass at least one of --name, --number, --date, --status, --result)")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	err = ingest.EditRound(a.db, roundID, fields)
	if errors.Is(err, ingest.ErrNotFound) {
		return fmt.Errorf("round #%d not found", roundID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated round #%d\n", roundID)
	return nil
}

func newRoundRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <round-id>",
		Short: "Remove a round",
		Args:  cobra.ExactArgs(1),
		RunE:  runRoundRm,
	}
}

func runRoundRm(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	roundID, err := parseID(args[0], "round")
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	err = ingest.RemoveRound(a.db, roundID)
	if errors.Is(err, ingest.ErrNotFound) {
		return fmt.Errorf("round #%d not found", roundID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Removed round #%d\n", roundID)
	return nil
}
