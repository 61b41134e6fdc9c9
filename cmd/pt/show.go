package main

import (
	"errors"
	"fmt"

	"github.com/driveline/placetrack/internal/models"
	"github.com/driveline/placetrack/internal/store"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var messages bool

	cmd := &cobra.Command{
		Use:   "show <drive-id>",
		Short: "Show one drive with its rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], messages)
		},
	}

	cmd.Flags().BoolVar(&messages, "messages", false, "include the raw message history")
	return cmd
}

func runShow(cmd *cobra.Command, arg string, messages bool) error {
	out := cmd.OutOrStdout()

	id, err := parseID(arg, "drive")
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	d, err := store.GetDrive(a.db, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("drive #%d not found", id)
	}
	if err != nil {
		return err
	}
	rounds, err := store.ListRounds(a.db, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Drive #%d: %s\n", d.ID, d.CompanyName)
	fmt.Fprintf(out, "  Role:         %s\n", d.Role)
	fmt.Fprintf(out, "  Location:     %s\n", d.Location)
	fmt.Fprintf(out, "  CTC/Stipend:  %s\n", d.CTCStipend)
	fmt.Fprintf(out, "  Status:       %s\n", d.Status)
	fmt.Fprintf(out, "  Registered:   %s\n", yesNo(d.RegistrationStatus == models.Registered))
	fmt.Fprintf(out, "  Selected:     %s\n", yesNo(d.Selected))
	fmt.Fprintf(out, "  Parse status: %s", d.ParseStatus)
	if d.QueuedForRetry {
		fmt.Fprint(out, " (queued for retry)")
	}
	fmt.Fprintln(out)
	if d.SkillsNotes != "" && d.SkillsNotes != models.PlaceholderField {
		fmt.Fprintf(out, "  Notes:        %s\n", d.SkillsNotes)
	}

	if len(rounds) > 0 {
		fmt.Fprintln(out, "Rounds:")
		for _, r := range rounds {
			fmt.Fprintf(out, "  %d. [#%d] %s", r.RoundNumber, r.ID, r.RoundName)
			if r.RoundDate != "" && r.RoundDate != models.RoundDateSentinel {
				fmt.Fprintf(out, " at %s", r.RoundDate)
			}
			fmt.Fprintf(out, " (%s", r.Status)
			if r.Result != "" && r.Result != models.ResultNotConducted {
				fmt.Fprintf(out, ", %s", r.Result)
			}
			fmt.Fprintln(out, ")")
		}
	}

	if messages {
		fmt.Fprintln(out, "Messages:")
		for i, m := range d.Messages() {
			fmt.Fprintf(out, "  --- message %d ---\n  %s\n", i+1, m)
		}
	}
	return nil
}
