package main

import (
	"errors"
	"fmt"

	"github.com/driveline/placetrack/internal/ingest"
	"github.com/spf13/cobra"
)

func newAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "append <drive-id> [message]",
		Short: "Append a follow-up message to a drive",
		Long: `Appends a raw message to a drive's history and re-extracts the
drive's fields and rounds from it. The message is the second argument,
or stdin when omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runAppend,
	}
}

func runAppend(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	id, err := parseID(args[0], "drive")
	if err != nil {
		return err
	}
	text, err := messageArg(cmd, args[1:])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	d, err := a.engine().AppendMessage(cmd.Context(), id, text)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Updated drive #%d: %s (%s)\n", d.ID, d.CompanyName, d.Role)
	case errors.Is(err, ingest.ErrNotFound):
		return fmt.Errorf("drive #%d not found", id)
	case d != nil:
		fmt.Fprintf(out, "Message saved on drive #%d, extraction deferred: %s\n", d.ID, deferReason(err))
		fmt.Fprintln(out, "It will be retried by `pt sweep`.")
	default:
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s", verr.Reason)
		}
		return err
	}
	return nil
}
