package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/driveline/placetrack/internal/dashboard"
	"github.com/driveline/placetrack/internal/notify"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: `Serves the read-only JSON dashboard until interrupted. When a sweep
schedule is configured, queued drives are retried on that schedule; when
a notify platform is configured, reminders for rounds inside the
reminder window are announced at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, err := notify.FromConfig(a.cfg.Notify)
	if err != nil {
		return err
	}
	if notifier != nil {
		reminders, err := notify.UpcomingReminders(a.db, a.cfg.Notify.ReminderWindow(), time.Now())
		if err != nil {
			a.log.Warn("could not collect reminders", "error", err)
		} else {
			notify.Announce(ctx, notifier, reminders, a.log)
		}
	}

	if expr := a.cfg.Sweep.Schedule; expr != "" {
		sweeper := a.sweeper()
		go func() {
			if err := sweeper.RunScheduled(ctx, expr); err != nil && ctx.Err() == nil {
				a.log.Error("scheduled sweeps stopped", "error", err)
			}
		}()
	}

	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:   a.db,
		Port: port,
		Out:  cmd.OutOrStdout(),
	})
}
