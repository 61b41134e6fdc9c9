package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/driveline/placetrack/internal/ingest"
	"github.com/driveline/placetrack/internal/models"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var notRegistered bool

	cmd := &cobra.Command{
		Use:   "add [message]",
		Short: "Track a new drive from a recruitment message",
		Long: `Creates a drive from a raw recruitment message and extracts its
structured fields. The message is the first argument, or stdin when no
argument is given (so you can pipe a pasted announcement in).

The drive is saved even when extraction fails; failed drives are retried
by "pt sweep".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, notRegistered)
		},
	}

	cmd.Flags().BoolVar(&notRegistered, "not-registered", false, "track the drive without registering for it")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string, notRegistered bool) error {
	out := cmd.OutOrStdout()

	text, err := messageArg(cmd, args)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	opts := ingest.CreateOpts{}
	if notRegistered {
		opts.RegistrationStatus = models.NotRegistered
	}

	d, err := a.engine().CreateDrive(cmd.Context(), text, opts)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Added drive #%d: %s (%s)\n", d.ID, d.CompanyName, d.Role)
	case d != nil:
		fmt.Fprintf(out, "Drive #%d saved, extraction deferred: %s\n", d.ID, deferReason(err))
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

// messageArg reads the raw message from the argument or from stdin.
func messageArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read message from stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no message given (pass it as an argument or pipe it to stdin)")
	}
	return text, nil
}
